package flash_test

import (
	"testing"

	"github.com/gorilla/sessions"
	"github.com/keatonhoyle/anesthesia-whiteboard/internal/app/system/flash"
)

func TestAddPop(t *testing.T) {
	sess := sessions.NewSession(sessions.NewCookieStore([]byte("k")), "s")

	flash.Add(sess, flash.Success, "Room 9 added.")
	flash.Add(sess, flash.Error, "Room already exists | pick another")
	sess.AddFlash("bare")

	got := flash.Pop(sess)
	if len(got) != 3 {
		t.Fatalf("Pop = %+v", got)
	}
	if got[0] != (flash.Message{Kind: flash.Success, Text: "Room 9 added."}) {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Text != "Room already exists | pick another" {
		t.Errorf("text with separator = %q", got[1].Text)
	}
	if got[2].Kind != flash.Warning || got[2].Text != "bare" {
		t.Errorf("bare = %+v", got[2])
	}
	if again := flash.Pop(sess); len(again) != 0 {
		t.Errorf("second Pop = %+v", again)
	}
}
