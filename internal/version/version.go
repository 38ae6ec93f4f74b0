package version

import "fmt"

// ビルド時に -ldflags で上書きされる
var (
	// Version はリリースバージョン
	Version = "dev"
	// Commit はGitコミットハッシュ
	Commit = "none"
	// Date はビルド日時
	Date = "unknown"
)

// Info はバージョン情報を保持する構造体
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get は現在のバージョン情報を返す
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
}

// String は --version 表示用の文字列を返す
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
