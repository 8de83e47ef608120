package envinfo

import "testing"

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name           string
		env            map[string]string
		wantServer     DisplayServer
		wantCompositor string
	}{
		{
			"explicit wayland session",
			map[string]string{"XDG_SESSION_TYPE": "wayland", "XDG_CURRENT_DESKTOP": "GNOME"},
			Wayland, "gnome",
		},
		{
			"explicit x11 session",
			map[string]string{"XDG_SESSION_TYPE": "x11", "XDG_CURRENT_DESKTOP": "XFCE"},
			X11, "xfce",
		},
		{
			"wayland display without session type",
			map[string]string{"WAYLAND_DISPLAY": "wayland-0"},
			Wayland, "",
		},
		{
			"empty environment defaults to x11",
			map[string]string{},
			X11, "",
		},
		{
			"tty session stays x11-like even with wayland display",
			map[string]string{"XDG_SESSION_TYPE": "tty", "WAYLAND_DISPLAY": "wayland-0"},
			X11, "",
		},
		{
			"colon list desktop keeps last entry",
			map[string]string{"XDG_SESSION_TYPE": "x11", "XDG_CURRENT_DESKTOP": "ubuntu:GNOME"},
			X11, "gnome",
		},
		{
			"desktop session fallback",
			map[string]string{"XDG_SESSION_TYPE": "x11", "DESKTOP_SESSION": "plasma"},
			X11, "plasma",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFrom(fakeEnv(tt.env))
			if got.Server != tt.wantServer {
				t.Errorf("Server: got %q, want %q", got.Server, tt.wantServer)
			}
			if got.Compositor != tt.wantCompositor {
				t.Errorf("Compositor: got %q, want %q", got.Compositor, tt.wantCompositor)
			}
		})
	}
}

func TestGuidance(t *testing.T) {
	x := Profile{Server: X11}
	w := Profile{Server: Wayland}

	if len(x.Guidance()) == 0 || len(w.Guidance()) == 0 {
		t.Fatal("guidance must never be empty")
	}

	found := false
	for _, hint := range w.Guidance() {
		if hint == "install grim for wlroots compositors (sway, river, ...)" {
			found = true
		}
	}
	if !found {
		t.Error("wayland guidance should mention grim")
	}
}
