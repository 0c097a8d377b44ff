package wikisdk

import (
	"fmt"
	"runtime"

	"github.com/lorekeep/lorekeep/internal/utils"
	"github.com/lorekeep/lorekeep/internal/version"
)

const (
	HeaderDeviceId = "X-Lorekeep-Device-Id"
)

// UserAgent identifies this client build to the server.
var UserAgent = fmt.Sprintf("Lorekeep/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

func deviceID() string {
	return utils.HWID
}
