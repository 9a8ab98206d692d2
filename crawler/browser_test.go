package crawler

import (
	"reflect"
	"testing"
)

func TestSameHostLinks(t *testing.T) {
	html := `<html><body>
<a href="/serie-a/form">Form</a>
<a href="stats">Stats</a>
<a href="http://league.test/serie-a/form">Duplicate</a>
<a href="https://other.test/serie-a">External</a>
<a href="mailto:tips@league.test">Mail</a>
<a href="/serie-a/form#top">Fragment</a>
</body></html>`

	got := sameHostLinks(html, "http://league.test/serie-a/", "league.test")
	want := []string{
		"http://league.test/serie-a/form",
		"http://league.test/serie-a/stats",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("links = %v, want %v", got, want)
	}
}

func TestSameHostLinksEmptyDocument(t *testing.T) {
	if got := sameHostLinks("<html><body></body></html>", "http://league.test", "league.test"); got != nil {
		t.Errorf("links = %v, want nil", got)
	}
}
