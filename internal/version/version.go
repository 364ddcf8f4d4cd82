// Package version хранит сведения о сборке, подставляемые через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/orderflow/internal/version.version=v1.2.0"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return GetVersion(), GetCommit(), GetDate() }

// GetVersion возвращает версию; без ldflags берёт версию модуля из build info.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func GetCommit() string { return commit }

func GetDate() string { return date }

func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", GetVersion(), GetCommit(), GetDate())
}

// Banner строка для стартового лога бинарника.
func Banner(binary string) string {
	return fmt.Sprintf("%s %s", binary, String())
}
