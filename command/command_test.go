package command

import "testing"

func TestBase_Tag(t *testing.T) {
	b := NewBase("a1")
	if got := b.Tag(); got != "a1" {
		t.Errorf("Tag() = %q, want %q", got, "a1")
	}
}

// TestCommand_Name covers the Name/Tag contract every Command variant
// satisfies: Name reports the wire command name independent of the tag
// carried by Base, matching the teacher's capability-table test shape.
func TestCommand_Name(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"capability", Capability{Base: NewBase("a1")}, "CAPABILITY"},
		{"noop", Noop{Base: NewBase("a2")}, "NOOP"},
		{"logout", Logout{Base: NewBase("a3")}, "LOGOUT"},
		{"login", Login{Base: NewBase("a4")}, "LOGIN"},
		{"enable", Enable{Base: NewBase("a5")}, "ENABLE"},
		{"select", Select{Base: NewBase("a6")}, "SELECT"},
		{"examine", Examine{Base: NewBase("a7")}, "EXAMINE"},
		{"append", Append{Base: NewBase("a8")}, "APPEND"},
		{"fetch", Fetch{Base: NewBase("a9")}, "FETCH"},
		{"store", Store{Base: NewBase("a10")}, "STORE"},
		{"list", List{Base: NewBase("a11")}, "LIST"},
		{"lsub", Lsub{Base: NewBase("a12")}, "LSUB"},
		{"search", Search{Base: NewBase("a13")}, "SEARCH"},
		{"move", Move{Base: NewBase("a14")}, "MOVE"},
		{"idle", Idle{Base: NewBase("a15")}, "IDLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
			if got := tt.cmd.Tag(); got == "" {
				t.Errorf("Tag() = %q, want non-empty", got)
			}
		})
	}
}

func TestStoreAction_String(t *testing.T) {
	tests := []struct {
		action StoreAction
		want   string
	}{
		{StoreFlagsSet, "FLAGS"},
		{StoreFlagsAdd, "+FLAGS"},
		{StoreFlagsDel, "-FLAGS"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("StoreAction(%d).String() = %q, want %q", tt.action, got, tt.want)
		}
	}
}
