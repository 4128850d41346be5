package entries

import (
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Entry
		ok   bool
	}{
		{"CCTV1,http://tv.test/cctv1.m3u8", Entry{"CCTV1", "http://tv.test/cctv1.m3u8"}, true},
		{"CCTV1, http://tv.test/a,b ", Entry{"CCTV1", "http://tv.test/a,b"}, true},
		{"央视频道,#genre#", Entry{}, false},
		{"no scheme,example.com", Entry{}, false},
		{"http://tv.test/no-name", Entry{}, false},
		{"   ", Entry{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseLine(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseLine(%q) = (%+v, %v), want (%+v, %v)", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEntryLine(t *testing.T) {
	e := Entry{Name: "A", URL: "http://ok.test/"}
	if got := e.Line(); got != "A,http://ok.test/" {
		t.Errorf("Line() = %q", got)
	}
}

func TestSplitMulti(t *testing.T) {
	in := []string{
		"A,http://a.test/1#http://a.test/2# rtmp://a.test/3 #junk",
		"B,http://b.test/x",
		"not a candidate",
	}
	want := []string{
		"A,http://a.test/1",
		"A,http://a.test/2",
		"A,rtmp://a.test/3",
		"B,http://b.test/x",
	}
	if got := SplitMulti(in); !reflect.DeepEqual(got, want) {
		t.Errorf("SplitMulti() = %q, want %q", got, want)
	}
}

func TestStripAnnotations(t *testing.T) {
	in := []string{"A,http://a.test/live$1920x1080", "B,http://b.test/x$a$b", "C,http://c.test/"}
	want := []string{"A,http://a.test/live", "B,http://b.test/x$a", "C,http://c.test/"}
	if got := StripAnnotations(in); !reflect.DeepEqual(got, want) {
		t.Errorf("StripAnnotations() = %q, want %q", got, want)
	}
}

func TestDedup(t *testing.T) {
	in := []string{"A,http://x.test/", "B,http://x.test/", "C, http://x.test/", "D,http://y.test/"}
	want := []string{"A,http://x.test/", "D,http://y.test/"}
	if got := Dedup(in); !reflect.DeepEqual(got, want) {
		t.Errorf("Dedup() = %q, want %q", got, want)
	}
}

func TestCleanAndParse(t *testing.T) {
	in := []string{
		"A,http://a.test/1$hd#http://a.test/2",
		"B,http://a.test/1",
		"C,rtp://239.0.0.1:5000",
	}
	got := Parse(Clean(in))
	want := []Entry{
		{"A", "http://a.test/1"},
		{"A", "http://a.test/2"},
		{"C", "rtp://239.0.0.1:5000"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse(Clean()) = %+v, want %+v", got, want)
	}
}
