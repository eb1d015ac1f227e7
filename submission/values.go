package submission

import "github.com/prashil107/attendance/model"

// Values is the raw, untrimmed content of an attendance form. A *Values is
// itself a Form.
type Values struct {
	StudentID   string
	StudentName string
	Action      model.Action
}

func NewValues() *Values {
	return &Values{Action: model.DefaultAction()}
}

func (v *Values) Values() Values {
	return *v
}

func (v *Values) Reset() {
	*v = Values{Action: model.DefaultAction()}
}
