package response

import "testing"

func TestStatus_Error(t *testing.T) {
	tests := []struct {
		name   string
		status *Status
		want   string
	}{
		{"no text", &Status{Type: StatusBad}, "BAD"},
		{"with text", &Status{Type: StatusNo, Text: "mailbox does not exist"}, "NO mailbox does not exist"},
		{"bye", &Status{Type: StatusBye, Text: "server shutting down"}, "BYE server shutting down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestResponse_SealedInterface confirms every data response type still
// satisfies Response, the way the teacher's capability table confirms
// every capability constant is recognized: a type assertion here fails
// to compile if a variant's marker method goes missing.
func TestResponse_SealedInterface(t *testing.T) {
	var responses = []Response{
		&Status{},
		&Capability{},
		&Flags{},
		&Exists{},
		&Recent{},
		&Expunge{},
		&Vanished{},
		&Fetch{},
		&List{},
		&Search{},
		&ESearch{},
	}
	for _, r := range responses {
		if r == nil {
			t.Error("nil Response in table")
		}
	}
}

// TestFetchAttrValue_SealedInterface is the FetchAttrValue analogue.
func TestFetchAttrValue_SealedInterface(t *testing.T) {
	var values = []FetchAttrValue{
		FlagsAttr{},
		EnvelopeAttr{},
		InternalDateAttr{},
		RFC822SizeAttr{},
		BodySectionAttr{},
	}
	for _, v := range values {
		if v == nil {
			t.Error("nil FetchAttrValue in table")
		}
	}
}
