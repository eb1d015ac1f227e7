package model

type DisplayMessage struct {
	Text    string
	IsError bool
}

// Class is the css class of the message element.
func (m DisplayMessage) Class() string {
	if m.IsError {
		return "error"
	}
	return "success"
}

func (m DisplayMessage) String() string {
	return m.Text
}
