package probe

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		url  string
		want Protocol
	}{
		{"http://example.com/live.m3u8", HTTP},
		{"https://example.com/live.m3u8", HTTP},
		{"rtmp://example.com/live/stream", RTMPRTSP},
		{"rtsp://x/y", RTMPRTSP},
		{"rtp://239.3.1.241:8000", RTP},
		{"p3p://example.com:8080/ch1", P3P},
		{"p2p://example.com:9906/ch1", P2P},
		{"ftp://x", Unsupported},
		{"HTTP://example.com/", Unsupported},
		{"", Unsupported},
		{"udp://@239.0.0.1:1234", Unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		host string
		want Family
	}{
		{"192.168.1.10", IPv4},
		{"::1", IPv6},
		{"[2001:db8::1]", IPv6},
		{"fe80::1%eth0", IPv6},
		{"example.com", IPv4},
		{"", IPv4},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := FamilyFor(tt.host); got != tt.want {
				t.Errorf("FamilyFor(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestFamilyNetwork(t *testing.T) {
	if got := IPv4.Network("tcp"); got != "tcp4" {
		t.Errorf("IPv4.Network(tcp) = %q", got)
	}
	if got := IPv6.Network("udp"); got != "udp6" {
		t.Errorf("IPv6.Network(udp) = %q", got)
	}
}

func TestNewSetCoversEveryProtocol(t *testing.T) {
	set := NewSet(Options{})
	for _, p := range []Protocol{HTTP, RTMPRTSP, RTP, P3P, P2P} {
		if set[p] == nil {
			t.Errorf("no prober registered for %v", p)
		}
	}
	if _, ok := set[Unsupported]; ok {
		t.Error("Unsupported must not have a prober")
	}
}
