package framework

// Message is an item passed through the loop between controllers.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// MessageAppender adds messages to a store.
type MessageAppender interface {
	// AddMessages appends messages, visible from the next
	// processing pass.
	AddMessages(msgs ...Message)
}

// MessageStore holds the messages of one iteration. Messages left
// untaken when the iteration ends are dropped.
type MessageStore interface {
	// ProcessMessages walks all messages with the processor.
	ProcessMessages(MessageProcessor)

	MessageAppender
}

// MessageProcessor examines messages one at a time.
type MessageProcessor interface {
	ProcessMessage(MessageProcessingContext)
}

// ProcessMessageFunc is the func form of MessageProcessor.
type ProcessMessageFunc func(MessageProcessingContext)

// ProcessMessage implements MessageProcessor.
func (f ProcessMessageFunc) ProcessMessage(mc MessageProcessingContext) {
	f(mc)
}

// MessageProcessingContext is the view of one message during a
// processing pass.
type MessageProcessingContext interface {
	// CurrentMessage is the message under examination.
	CurrentMessage() Message
	// MessageTaken consumes the message, removing it from the store.
	MessageTaken()
	// StopProcessing leaves the remaining messages for a later pass.
	StopProcessing()

	MessageAppender
}
