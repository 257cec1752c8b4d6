// Package channel encodes the modem channel addressing convention used by the
// base control computers.
//
// Channels are three-digit numbers: the hundreds digit selects a base, the
// two low digits select an interactable within it.
//
//	000  base channel
//	100  void base
//	200  space station
//	300  overworld base
//
// Within a base, channel base+NN acts on interactable NN. Doors are numbered
// ascending from 1; every other interactable (lights, power sources,
// machines) is numbered descending from 99. So 101 is "Door 01", 199 is
// "Power Source 99", 198 is "Light 98".
package channel

import "fmt"

// Base is a base channel (a multiple of 100).
type Base int

const (
	Central   Base = 0
	Void      Base = 100
	Station   Base = 200
	Overworld Base = 300
)

// Action returns the channel that addresses interactable id within base.
func Action(base Base, id int) (int, error) {
	if id < 0 || id > 99 {
		return 0, fmt.Errorf("interactable id %d out of range 0-99", id)
	}
	return int(base) + id, nil
}

// Split breaks a channel into its base and interactable id.
func Split(ch int) (Base, int, error) {
	if ch < 0 || ch > 399 {
		return 0, 0, fmt.Errorf("channel %d out of range 0-399", ch)
	}
	return Base(ch / 100 * 100), ch % 100, nil
}

// IsBase reports whether ch is a bare base channel rather than an action
// channel.
func IsBase(ch int) bool {
	return ch >= 0 && ch <= 399 && ch%100 == 0
}
