package probe

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hamed0406/slotwatch/internal/domain"
)

func TestInterpret(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		verdict domain.Verdict
		msg     string
	}{
		{"not released", `{"error":"true","msn":"not released"}`, domain.NotYetReleased, "not released"},
		{"not released upper", `{"error":"TRUE"}`, domain.NotYetReleased, "Unavailable"},
		{"not released bool", `{"error":true,"msn":"  "}`, domain.NotYetReleased, "Unavailable"},
		{"error false", `{"error":"false","atendimentos":"0","horarios":""}`, domain.NoVacancy, "No vacancy"},
		{"available string count", `{"atendimentos":"3","horarios":"08:00,09:00"}`, domain.Available, "Schedules available"},
		{"available numeric count", `{"atendimentos":2,"horarios":"08:00","msn":"ok"}`, domain.Available, "ok"},
		{"placeholder time", `{"atendimentos":2,"horarios":"00:00"}`, domain.NoVacancy, "No vacancy"},
		{"placeholder padded", `{"atendimentos":"5","horarios":" 00:00 "}`, domain.NoVacancy, "No vacancy"},
		{"zero count", `{"atendimentos":0,"horarios":"08:00"}`, domain.NoVacancy, "No vacancy"},
		{"non numeric count", `{"atendimentos":"muitos","horarios":"08:00"}`, domain.NoVacancy, "No vacancy"},
		{"missing times", `{"atendimentos":4,"msn":"Sem vagas"}`, domain.NoVacancy, "Sem vagas"},
		{"float count", `{"atendimentos":1.9,"horarios":"10:00"}`, domain.Available, "Schedules available"},
		{"null msn", `{"atendimentos":0,"msn":null}`, domain.NoVacancy, "No vacancy"},
		{"huge exponent count", `{"atendimentos":1e20,"horarios":"08:00"}`, domain.Available, "Schedules available"},
		{"huge integer count", `{"atendimentos":99999999999999999999,"horarios":"08:00"}`, domain.Available, "Schedules available"},
		{"huge string count", `{"atendimentos":"99999999999999999999","horarios":"08:00"}`, domain.Available, "Schedules available"},
		{"huge negative count", `{"atendimentos":-1e20,"horarios":"08:00"}`, domain.NoVacancy, "No vacancy"},
		{"fractional string count", `{"atendimentos":"1.5","horarios":"08:00"}`, domain.NoVacancy, "No vacancy"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Interpret([]byte(c.body))
			if got.Verdict != c.verdict || got.Message != c.msg {
				t.Fatalf("want (%s, %q), got (%s, %q)", c.verdict, c.msg, got.Verdict, got.Message)
			}
		})
	}
}

func TestInterpret_NonJSONIsNoVacancyWithSnippet(t *testing.T) {
	body := "<html>\n<body>Service temporarily unavailable</body>\n</html>"
	got := Interpret([]byte(body))
	if got.Verdict != domain.NoVacancy {
		t.Fatalf("want NoVacancy, got %s", got.Verdict)
	}
	if strings.Contains(got.Message, "\n") {
		t.Fatalf("snippet should be single line: %q", got.Message)
	}
	if !strings.HasPrefix(got.Message, "<html> <body>Service") {
		t.Fatalf("unexpected snippet %q", got.Message)
	}

	// an object followed by a PHP notice is not a JSON document
	polluted := `{"atendimentos":"3","horarios":"08:00"}<br /><b>Warning</b>`
	got = Interpret([]byte(polluted))
	if got.Verdict != domain.NoVacancy || got.Message != polluted {
		t.Fatalf("trailing output: want (no_vacancy, %q), got (%s, %q)", polluted, got.Verdict, got.Message)
	}
	got = Interpret([]byte(`{"atendimentos":"3","horarios":"08:00"}{"x":1}`))
	if got.Verdict != domain.NoVacancy {
		t.Fatalf("two documents: want NoVacancy, got %s", got.Verdict)
	}
	got = Interpret([]byte("{\"atendimentos\":\"3\",\"horarios\":\"08:00\"}\n"))
	if got.Verdict != domain.Available {
		t.Fatalf("trailing newline must still parse, got %s", got.Verdict)
	}
}

func TestInterpret_NonObjectJSON(t *testing.T) {
	for _, body := range []string{`[1,2,3]`, `"true"`, `null`, ``} {
		if got := Interpret([]byte(body)); got.Verdict != domain.NoVacancy {
			t.Fatalf("%q: want NoVacancy, got %s", body, got.Verdict)
		}
	}
}

func TestSnippet_TruncatesTo160Characters(t *testing.T) {
	long := strings.Repeat("á", 500)
	got := Snippet([]byte(long))
	if n := utf8.RuneCountInString(got); n != 160 {
		t.Fatalf("want 160 runes, got %d", n)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("snippet cut a rune in half")
	}
}

func TestInterpret_IsPure(t *testing.T) {
	body := []byte(`{"atendimentos":"3","horarios":"08:00,09:00","msn":"x"}`)
	first := Interpret(body)
	for i := 0; i < 5; i++ {
		if got := Interpret(body); got != first {
			t.Fatalf("same body gave %+v then %+v", first, got)
		}
	}
}
