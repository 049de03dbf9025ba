package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProber_SendsOrderedFormAndAjaxHeaders(t *testing.T) {
	var (
		gotForm   []string
		gotHeader http.Header
		gotMethod string
	)
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Clone()
		_ = r.ParseForm()
		gotForm = r.PostForm["dados[]"]
		w.Write([]byte(`{"error":"true","msn":"not released"}`))
	}))
	defer s.Close()

	p := NewHTTPProber(s.URL+"/ajax.loading.horarios.php", "https://seati.example.gov.br/procon/agendamento/", 2*time.Second)
	resp, err := p.Probe(context.Background(), testReq)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if resp.StatusCode != 200 || string(resp.Body) != `{"error":"true","msn":"not released"}` {
		t.Fatalf("unexpected response %+v", resp)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("want POST, got %s", gotMethod)
	}
	want := []string{"85", "316", "05/03/2026", "QUI"}
	if len(gotForm) != len(want) {
		t.Fatalf("want form %v, got %v", want, gotForm)
	}
	for i := range want {
		if gotForm[i] != want[i] {
			t.Fatalf("field %d: want %s got %s", i, want[i], gotForm[i])
		}
	}
	if gotHeader.Get("X-Requested-With") != "XMLHttpRequest" {
		t.Fatalf("missing ajax header")
	}
	if gotHeader.Get("Origin") != "https://seati.example.gov.br" {
		t.Fatalf("unexpected origin %q", gotHeader.Get("Origin"))
	}
	if gotHeader.Get("Referer") != "https://seati.example.gov.br/procon/agendamento/" {
		t.Fatalf("unexpected referer %q", gotHeader.Get("Referer"))
	}
	if gotHeader.Get("Accept") != acceptHeader {
		t.Fatalf("unexpected accept %q", gotHeader.Get("Accept"))
	}
}

func TestHTTPProber_Non2xxIsStatusError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer s.Close()

	p := NewHTTPProber(s.URL, "", 2*time.Second)
	_, err := p.Probe(context.Background(), testReq)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Fatalf("want StatusError 502, got %v", err)
	}
}

func TestOrigin(t *testing.T) {
	if got := origin("https://seati.segov.ma.gov.br/procon/agendamento/"); got != "https://seati.segov.ma.gov.br" {
		t.Fatalf("unexpected origin %q", got)
	}
	if got := origin("not a url"); got != "" {
		t.Fatalf("want empty origin, got %q", got)
	}
}
