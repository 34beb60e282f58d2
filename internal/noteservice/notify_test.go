package noteservice

import (
	"bytes"
	"testing"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)
	n.Notify(LevelInfo, "done")
	n.Notify(LevelError, "boom")
	if got := buf.String(); got != "done\nerror: boom\n" {
		t.Errorf("output = %q", got)
	}
}

func TestMulti(t *testing.T) {
	var a, b recorder
	Multi(&a, &b, Discard).Notify(LevelInfo, "hi")
	if len(a.notices) != 1 || len(b.notices) != 1 {
		t.Errorf("a = %+v, b = %+v", a.notices, b.notices)
	}
}
