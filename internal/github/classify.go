package github

import (
	"bytes"
	"path"
	"strings"
)

// Known code/text extensions. Checked before binaryExtensions, so an entry in
// both sets (".ts" is TypeScript and MPEG-TS, ".svg" is XML) is counted.
var textExtensions = toSet(
	".go", ".py", ".pyi", ".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".java", ".kt", ".kts",
	".scala", ".groovy", ".gradle", ".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh", ".cs",
	".fs", ".vb", ".rb", ".php", ".rs", ".swift", ".m", ".mm", ".dart", ".lua", ".r", ".jl",
	".pl", ".pm", ".ex", ".exs", ".erl", ".hrl", ".hs", ".clj", ".cljs", ".elm", ".ml",
	".sh", ".bash", ".zsh", ".fish", ".ps1", ".bat", ".cmd", ".sql", ".proto", ".graphql",
	".html", ".htm", ".css", ".scss", ".sass", ".less", ".vue", ".svelte", ".astro", ".svg",
	".xml", ".xsd", ".json", ".jsonc", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf",
	".env", ".properties", ".mk", ".cmake", ".dockerfile", ".tf", ".hcl",
	".md", ".markdown", ".rst", ".txt", ".adoc", ".tex", ".csv", ".tsv", ".ipynb",
)

var binaryExtensions = toSet(
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".icns", ".webp", ".tif", ".tiff", ".psd",
	".heic", ".svg", ".ts", ".mp3", ".mp4", ".m4a", ".wav", ".ogg", ".flac", ".aac", ".avi",
	".mov", ".mkv", ".webm", ".wmv", ".zip", ".tar", ".gz", ".tgz", ".bz2", ".xz", ".7z",
	".rar", ".jar", ".war", ".apk", ".ipa", ".dmg", ".iso", ".pdf", ".doc", ".docx", ".xls",
	".xlsx", ".ppt", ".pptx", ".odt", ".exe", ".dll", ".so", ".dylib", ".bin", ".o", ".a",
	".lib", ".class", ".pyc", ".pyo", ".wasm", ".woff", ".woff2", ".ttf", ".otf", ".eot",
	".db", ".sqlite", ".sqlite3", ".pkl", ".npy", ".h5", ".onnx", ".pt",
)

const binarySniffLen = 1024

func toSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// * IsBinaryPath classifies a tree path by extension. Unknown extensions are text.
func IsBinaryPath(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	if _, ok := textExtensions[ext]; ok {
		return false
	}
	_, ok := binaryExtensions[ext]
	return ok
}

// * LooksBinary reports a NUL byte within the first 1024 bytes
func LooksBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), binarySniffLen)], 0) >= 0
}

// * CountLines counts newline-delimited segments, including an unterminated last line
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
