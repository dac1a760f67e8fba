package rbqllog

import "testing"

// NullLogger and StdoutLogger both satisfy Logger; this is a compile-time
// check that callers can swap implementations freely.
func TestLoggersSatisfyInterface(t *testing.T) {
	var _ Logger = StdoutLogger{}
	var _ Logger = NullLogger{}
}

func TestNullLoggerNeverPanics(t *testing.T) {
	var l Logger = NullLogger{}
	l.Print("x")
	l.Printf("%d", 1)
	l.Println("y")
}
