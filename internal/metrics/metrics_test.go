package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_ExposesCounters(t *testing.T) {
	FrameRendered("chase")
	CommandHandled("ledOn", "ok")
	StorageCommitted(true)
	SetMode("animation", []string{"off", "animation"})

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`stripd_render_frames_total{kind="chase"}`,
		`stripd_command_handled_total{command="ledOn",outcome="ok"}`,
		`stripd_storage_commits_total{region="overrides"}`,
		`stripd_device_mode{mode="animation"} 1`,
		`stripd_device_mode{mode="off"} 0`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
