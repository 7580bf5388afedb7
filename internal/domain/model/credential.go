package model

// ConnectionStatus describes where the settings flow currently sits with
// respect to the stored API credential: nothing in flight, a probe running,
// or the outcome of the last probe/save.
type ConnectionStatus string

const (
	ConnectionIdle    ConnectionStatus = "idle"
	ConnectionTesting ConnectionStatus = "testing"
	ConnectionSuccess ConnectionStatus = "success"
	ConnectionError   ConnectionStatus = "error"
)
