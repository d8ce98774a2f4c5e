package install

// Reporter receives progress events while an install runs.
type Reporter interface {
	Start(message string)
	Update(message string)
	Succeed(message string)
	Fail(message string)
}

// Nop is a Reporter that discards every event.
type Nop struct{}

func (Nop) Start(string)   {}
func (Nop) Update(string)  {}
func (Nop) Succeed(string) {}
func (Nop) Fail(string)    {}
