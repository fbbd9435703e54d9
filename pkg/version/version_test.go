package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetMore(t *testing.T) {
	got := GetMore(false)
	if !strings.HasPrefix(got, "version "+Version) {
		t.Errorf("GetMore(false) = %q", got)
	}
	if !strings.Contains(got, runtime.GOOS+"/"+runtime.GOARCH) || !strings.HasSuffix(got, "\n") {
		t.Errorf("GetMore(false) = %q, missing platform", got)
	}
}
