package sensors

// Sim is a scripted sensor for the host runner and tests.
type Sim struct {
	Value Reading
	Err   error
}

func (s *Sim) Name() string { return "sim" }

func (s *Sim) Read() (Reading, error) {
	if s.Err != nil {
		return Reading{}, s.Err
	}
	return s.Value, nil
}
