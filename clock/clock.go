package clock

//go:generate mockgen -source=clock.go -destination=mocks/mock_clock.go -package=mocks

import "time"

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}
