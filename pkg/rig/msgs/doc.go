// Package msgs provides the rig protocol support and all message
// schemas.
package msgs

// The rig protocol is communicated between the firmware controller
// and operator tools, and uses hardware-agnostic primitives.
//
// Producer: firmware controller
// Consumer: operator tools
