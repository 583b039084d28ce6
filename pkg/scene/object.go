package scene

// Object is one drawable item, a free-form property bag.
type Object map[string]interface{}

// Rect is the area an object covers, in game pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Message is one scene update.
type Message struct {
	Action   string `json:"action"`
	Object   Object `json:"object,omitempty"`
	RemoveID string `json:"id,omitempty"`
}

// Actions
const (
	ActionReset  = "reset"
	ActionObject = "object"
	ActionRemove = "remove"
)

// Properties
const (
	PropID    = "id"
	PropType  = "type"
	PropRect  = "rect"
	PropStyle = "style"
)

// NewObject creates an Object carrying type and id.
func NewObject(typ, id string) Object {
	o := make(Object)
	o[PropID] = id
	o[PropType] = typ
	return o
}

// Rc places the object.
func (o Object) Rc(x, y, w, h float64) Object {
	o[PropRect] = &Rect{X: x, Y: y, W: w, H: h}
	return o
}

// Style names the style a viewer should draw the object with.
func (o Object) Style(name string) Object {
	o[PropStyle] = name
	return o
}

// With sets a custom property.
func (o Object) With(key string, val interface{}) Object {
	o[key] = val
	return o
}
