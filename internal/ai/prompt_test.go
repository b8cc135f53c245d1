package ai

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/soirgang/soirtichaut/internal/chatlog"
)

func mkEntry(id int64, name, text string) chatlog.Entry {
	return chatlog.Entry{DisplayName: name, AuthorID: id * 10, Text: text, EntryID: id}
}

func mkHistory(n int64) []chatlog.Entry {
	var out []chatlog.Entry
	for i := int64(1); i <= n; i++ {
		out = append(out, mkEntry(i, "alice", fmt.Sprintf("message %d", i)))
	}
	return out
}

func TestBuildEmptyTranscript(t *testing.T) {
	b := NewPromptBuilder("soirtichautbot", "gpt-3.5-turbo-instruct", 0)
	if _, err := b.Build(nil, nil); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("err = %v, want ErrEmptyTranscript", err)
	}
}

func TestBuildSeedLine(t *testing.T) {
	b := NewPromptBuilder("soirtichautbot", "gpt-3.5-turbo-instruct", 0)
	prompt, err := b.Build(mkHistory(2), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasSuffix(prompt, "soirtichautbot: 3,2:") {
		t.Fatalf("prompt does not end with seed line:\n%s", prompt)
	}
	if strings.HasSuffix(prompt, "~~~") {
		t.Fatalf("seed line must be unterminated")
	}
}

func TestBuildWindowLimit(t *testing.T) {
	b := NewPromptBuilder("soirtichautbot", "gpt-3.5-turbo-instruct", 0)
	prompt, err := b.Build(mkHistory(15), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if n := strings.Count(prompt, "~~~"); n != 10+1 {
		// десять записей окна + одно "~~~" в описании формата
		t.Fatalf("terminator count = %d, want 11", n)
	}
	if strings.Contains(prompt, "alice: 5:") {
		t.Fatalf("entry 5 must be outside the window")
	}
	if !strings.Contains(prompt, "alice: 6: message 6~~~") {
		t.Fatalf("entry 6 must open the window:\n%s", prompt)
	}
	if !strings.HasSuffix(prompt, "soirtichautbot: 16,15:") {
		t.Fatalf("seed line must use the full-history last id")
	}
}

func TestBuildQuotedInclusion(t *testing.T) {
	b := NewPromptBuilder("soirtichautbot", "gpt-3.5-turbo-instruct", 0)
	history := mkHistory(15)

	// id 2 есть в полной истории, хотя и вне окна из 10
	quoted := mkEntry(2, "bob", "old take")
	prompt, err := b.Build(history, &quoted)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	lines := strings.Split(prompt, "Here's the chatlog:\n")
	if len(lines) != 2 {
		t.Fatalf("prompt missing chatlog section")
	}
	if !strings.HasPrefix(lines[1], "bob: 2: old take~~~\n") {
		t.Fatalf("quoted entry must be prepended ahead of the window:\n%s", lines[1])
	}

	// id 999 в истории нет — запись опускается
	unknown := mkEntry(999, "bob", "ghost")
	prompt, err = b.Build(history, &unknown)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(prompt, "ghost") {
		t.Fatalf("unknown quoted entry must be omitted")
	}
}

func TestBuildReplyLineFormat(t *testing.T) {
	target := int64(3)
	reply := chatlog.Entry{DisplayName: "bob", AuthorID: 1, Text: "yo", EntryID: 7, RepliesTo: &target}
	if got := entryLine(reply); got != "bob: 7,3: yo~~~" {
		t.Errorf("reply line = %q", got)
	}

	plain := mkEntry(7, "bob", "yo")
	if got := entryLine(plain); got != "bob: 7: yo~~~" {
		t.Errorf("plain line = %q", got)
	}
}

func TestBuildBudgetTrimsOldest(t *testing.T) {
	// стоимость: один терминатор = один токен; в заголовке он один,
	// остальные — строки окна
	b := NewPromptBuilder("soirtichautbot", "gpt-3.5-turbo-instruct", 4)
	b.countTokens = func(s string) int { return strings.Count(s, "~~~") }

	prompt, err := b.Build(mkHistory(10), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if n := strings.Count(prompt, "~~~"); n != 4 {
		t.Fatalf("terminator count after trim = %d, want 4", n)
	}
	if !strings.Contains(prompt, "message 10") {
		t.Fatalf("newest entry must survive trimming")
	}
	if strings.Contains(prompt, "message 7") {
		t.Fatalf("oldest entries must be trimmed first")
	}
	if !strings.HasSuffix(prompt, "soirtichautbot: 11,10:") {
		t.Fatalf("seed line must survive trimming")
	}
}
