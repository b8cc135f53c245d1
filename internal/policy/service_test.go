package policy

import (
	"errors"
	"testing"

	"github.com/soirgang/soirtichaut/internal/ports"
)

var bot = ports.BotIdentity{ID: 42, DisplayName: "soirtichautbot", Handle: "soirtichautbot"}

func author(id int64) *ports.Author {
	return &ports.Author{ID: id, DisplayName: "user", Username: "user"}
}

func TestEvaluateMulti(t *testing.T) {
	e := NewEngine(ModeMulti, 0, []int64{100, 200}, []int64{7})

	tests := []struct {
		name string
		msg  ports.Inbound
		want Decision
	}{
		{
			name: "authorized room, mention",
			msg:  ports.Inbound{RoomID: 100, EntryID: 2, Text: "hey @soirtichautbot", Author: author(1)},
			want: Decision{Record: true, Trigger: true},
		},
		{
			name: "authorized room, no mention",
			msg:  ports.Inbound{RoomID: 100, EntryID: 2, Text: "hello all", Author: author(1)},
			want: Decision{Record: true},
		},
		{
			name: "authorized room, reply to bot",
			msg: ports.Inbound{RoomID: 200, EntryID: 9, Text: "and then?", Author: author(1),
				ReplyTo: &ports.Quoted{EntryID: 8, Text: "story", Author: &ports.Author{ID: 42}}},
			want: Decision{Record: true, Trigger: true},
		},
		{
			name: "authorized room, reply to someone else",
			msg: ports.Inbound{RoomID: 200, EntryID: 9, Text: "and then?", Author: author(1),
				ReplyTo: &ports.Quoted{EntryID: 8, Text: "story", Author: &ports.Author{ID: 5}}},
			want: Decision{Record: true},
		},
		{
			name: "unauthorized room and author",
			msg:  ports.Inbound{RoomID: 999, EntryID: 2, Text: "@soirtichautbot hi", Author: author(1)},
			want: Decision{},
		},
		{
			name: "operator in unauthorized room, mention",
			msg:  ports.Inbound{RoomID: 999, EntryID: 2, Text: "@soirtichautbot hi", Author: author(7)},
			want: Decision{Record: true, Trigger: true},
		},
		{
			name: "room id equals operator id triggers without mention",
			msg:  ports.Inbound{RoomID: 7, EntryID: 2, Text: "anything", Author: author(7)},
			want: Decision{Record: true, Trigger: true},
		},
		{
			name: "operator edit command",
			msg:  ports.Inbound{RoomID: 7, EntryID: 2, Text: "???fix#####do this#####text", Author: author(7)},
			want: Decision{Record: true, Trigger: true, Edit: true},
		},
		{
			name: "non-operator edit sentinel is not privileged",
			msg:  ports.Inbound{RoomID: 100, EntryID: 2, Text: "???fix#####do this#####text", Author: author(1)},
			want: Decision{Record: true},
		},
		{
			name: "no author",
			msg:  ports.Inbound{RoomID: 100, EntryID: 2, Text: "@soirtichautbot"},
			want: Decision{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.msg, bot); got != tt.want {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluateSingle(t *testing.T) {
	e := NewEngine(ModeSingle, 100, nil, []int64{7})

	d := e.Evaluate(ports.Inbound{RoomID: 100, EntryID: 1, Text: "hi soirtichautbot", Author: author(1)}, bot)
	if !d.Record || !d.Trigger {
		t.Errorf("configured room: got %+v, want record+trigger", d)
	}

	d = e.Evaluate(ports.Inbound{RoomID: 101, EntryID: 1, Text: "hi soirtichautbot", Author: author(1)}, bot)
	if d.Record || d.Trigger {
		t.Errorf("other room: got %+v, want nothing", d)
	}
}

func TestParseEditCommand(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		instruction string
		input       string
		wantErr     bool
	}{
		{
			name:        "well-formed",
			text:        "???xyz#####do this#####some input",
			instruction: "this",
			input:       "some input",
		},
		{
			name:        "input keeps later delimiters",
			text:        "???x#####fixup#####a#####b",
			instruction: "up",
			input:       "a#####b",
		},
		{name: "no sentinel", text: "xyz#####do this#####input", wantErr: true},
		{name: "single delimiter", text: "???xyz#####do this", wantErr: true},
		{name: "no delimiters", text: "???xyz", wantErr: true},
		{name: "instruction too short", text: "???x#####ab#####input", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instruction, input, err := ParseEditCommand(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrBadEditCommand) {
					t.Fatalf("err = %v, want ErrBadEditCommand", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if instruction != tt.instruction || input != tt.input {
				t.Errorf("got (%q, %q), want (%q, %q)", instruction, input, tt.instruction, tt.input)
			}
		})
	}
}
