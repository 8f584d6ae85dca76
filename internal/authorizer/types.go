package authorizer

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveRun(verdict string, err error, started time.Time)
		ObserveRestart()
	}
)
