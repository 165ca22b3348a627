package htmlutil

import (
	"strings"
	"testing"
)

func TestToText(t *testing.T) {
	html := `
<section>
  <h2>Weather   in South Tyrol</h2>


  <ul>
    <li><h3>Bozen</h3> <p>7° / -1°</p></li>
  </ul>
  <p>Caf&eacute;</p>
</section>`

	got := ToText(html)
	if strings.Contains(got, "<") {
		t.Errorf("markup left in %q", got)
	}
	for _, want := range []string{"Weather in South Tyrol", "Bozen", "7° / -1°", "Café"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", got)
	}
	if got != strings.TrimSpace(got) {
		t.Errorf("surrounding whitespace kept: %q", got)
	}
}
