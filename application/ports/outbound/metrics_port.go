package outbound

import "time"

type MetricsPort interface {
	ObserveModelCall(op string, status string, elapsed time.Duration)
	ObserveVideoJob(outcome string, elapsed time.Duration)
	IncVideoPoll()
	IncHistoryWrite(action string)
}
