package templating

import (
	"bufio"
	"bytes"
	"os"
	"os/user"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Whoami describes the current user and machine.
type Whoami struct {
	Username string
	Realname string
	Hostname string
	Platform string
	Arch     string
	Distro   string
}

// Dirs holds well-known user directories.
type Dirs struct {
	Home   string
	Config string
	Cache  string
}

// Facts is the system information exposed to every template. It is captured
// once and reused for every render.
type Facts struct {
	OS     string
	Env    map[string]string
	Whoami Whoami
	Dirs   Dirs
}

// CaptureFacts reads the facts of the running process. Lookups that fail
// leave their field empty.
func CaptureFacts(osName string) Facts {
	f := Facts{
		OS:  osName,
		Env: environ(),
		Whoami: Whoami{
			Platform: runtime.GOOS,
			Arch:     runtime.GOARCH,
		},
	}
	if u, err := user.Current(); err == nil {
		f.Whoami.Username = u.Username
		f.Whoami.Realname = u.Name
	}
	f.Whoami.Hostname, _ = os.Hostname()
	if data, err := os.ReadFile("/etc/os-release"); err == nil {
		f.Whoami.Distro = osReleaseID(data)
	}
	f.Dirs.Home, _ = os.UserHomeDir()
	f.Dirs.Config, _ = os.UserConfigDir()
	f.Dirs.Cache, _ = os.UserCacheDir()
	return f
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// osReleaseID extracts ID from an os-release file.
func osReleaseID(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		k, v, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok || k != "ID" {
			continue
		}
		words, err := shellquote.Split(v)
		if err != nil || len(words) == 0 {
			return ""
		}
		return words[0]
	}
	return ""
}
