package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// languageScanDepth and statsDepth bound the directory walks
const (
	languageScanDepth = 2
	statsDepth        = 3
	maxTestFiles      = 20
	maxMainFiles      = 10
	mainFileMinLines  = 50
	structureListing  = 10
)

// ignoredDirs are skipped by every walk, as are dot-directories
var ignoredDirs = map[string]bool{
	"node_modules": true,
	"venv":         true,
	"__pycache__":  true,
	"target":       true,
	"build":        true,
	"dist":         true,
}

var languageByExt = map[string]string{
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".py":    "Python",
	".java":  "Java",
	".cpp":   "C++",
	".cc":    "C++",
	".cxx":   "C++",
	".c":     "C",
	".cs":    "C#",
	".rs":    "Rust",
	".go":    "Go",
	".php":   "PHP",
	".rb":    "Ruby",
	".swift": "Swift",
	".kt":    "Kotlin",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "SCSS/Sass",
	".sass":  "SCSS/Sass",
}

// sourceExts are counted toward TotalLines
var sourceExts = map[string]bool{
	".js": true, ".ts": true, ".py": true, ".java": true, ".cpp": true, ".c": true,
	".cs": true, ".rs": true, ".go": true, ".php": true, ".rb": true, ".html": true, ".css": true,
}

var configPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\.env$`),
	regexp.MustCompile(`^\.env\.local$`),
	regexp.MustCompile(`^\.env\.production$`),
	regexp.MustCompile(`^config\.(json|yaml|yml|toml)$`),
	regexp.MustCompile(`^[jt]sconfig\.json$`),
	regexp.MustCompile(`^\.eslintrc`),
	regexp.MustCompile(`^\.prettierrc`),
	regexp.MustCompile(`^webpack\.config\.js$`),
	regexp.MustCompile(`^vite\.config\.`),
	regexp.MustCompile(`^docker-compose\.ya?ml$`),
	regexp.MustCompile(`^Dockerfile$`),
	regexp.MustCompile(`^\.gitignore$`),
	regexp.MustCompile(`^\.editorconfig$`),
}

var entryPointNames = []string{
	"main.py", "app.py", "__main__.py",
	"index.js", "main.js", "app.js", "server.js",
	"index.ts", "main.ts", "app.ts", "server.ts",
	"Main.java", "App.java",
	"main.go",
	"main.rs",
	"index.html",
}

var docNames = map[string]bool{
	"readme.md": true, "readme.txt": true, "readme.rst": true,
	"changelog.md": true, "changelog.txt": true,
	"license": true, "license.md": true, "license.txt": true,
	"contributing.md": true, "contributing.txt": true,
	"docs": true, "documentation": true, "wiki": true,
}

var testDirNames = map[string]bool{"test": true, "tests": true, "__tests__": true, "spec": true}

// GitFunc runs a git subcommand in dir and returns its stdout
type GitFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Analyzer walks a workspace root and builds a Snapshot. Every step is
// best-effort: unreadable files and directories are skipped.
type Analyzer struct {
	Root   string
	Logger *slog.Logger
	Git    GitFunc
	Now    func() time.Time
}

// NewAnalyzer creates an Analyzer using the git binary on PATH
func NewAnalyzer(root string, logger *slog.Logger) *Analyzer {
	return &Analyzer{Root: root, Logger: logger, Git: runGit, Now: time.Now}
}

// Analyze is shorthand for NewAnalyzer(root, logger).Analyze(ctx)
func Analyze(ctx context.Context, root string, logger *slog.Logger) *Snapshot {
	return NewAnalyzer(root, logger).Analyze(ctx)
}

// Analyze rebuilds the snapshot from scratch
func (a *Analyzer) Analyze(ctx context.Context) *Snapshot {
	s := &Snapshot{
		Root:        a.Root,
		ProjectType: UnknownProject,
		Languages:   []string{},
		Frameworks:  []string{},
		Structure:   map[string]StructEntry{},
		Configs:     []string{},
		EntryPoints: []string{},
		TestFiles:   []string{},
		MainFiles:   []string{},
		AnalyzedAt:  a.now(),
	}
	if a.Root == "" {
		return s
	}

	names := a.rootNames()

	s.Structure = a.structure(names)
	a.detectProject(s, names)
	a.scanLanguages(a.Root, 0, s)
	s.Dependencies = a.dependencies(names)
	s.Configs = a.configs(names)
	s.Scripts = a.scripts(names, s.Dependencies)
	s.EntryPoints = a.entryPoints()
	a.scanTests(a.Root, "", s)
	s.Documentation = a.documentation(names)
	s.Git = a.gitInfo(ctx, names)
	a.stats(a.Root, 0, s)

	a.debug("Workspace analyzed",
		"root", a.Root,
		"type", s.ProjectType,
		"languages", len(s.Languages),
		"files", s.FileCount,
		"lines", s.TotalLines)
	return s
}

func (a *Analyzer) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *Analyzer) debug(msg string, args ...any) {
	if a.Logger != nil {
		a.Logger.Debug(msg, args...)
	}
}

func (a *Analyzer) rootNames() map[string]os.DirEntry {
	names := map[string]os.DirEntry{}
	entries, err := os.ReadDir(a.Root)
	if err != nil {
		a.debug("Cannot read workspace root", "root", a.Root, "error", err)
		return names
	}
	for _, e := range entries {
		names[e.Name()] = e
	}
	return names
}

func (a *Analyzer) path(parts ...string) string {
	return filepath.Join(append([]string{a.Root}, parts...)...)
}

func (a *Analyzer) readFile(name string) (string, bool) {
	data, err := os.ReadFile(a.path(name))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (a *Analyzer) structure(names map[string]os.DirEntry) map[string]StructEntry {
	out := map[string]StructEntry{}
	for name, entry := range names {
		if strings.HasPrefix(name, ".") && name != ".env" && name != ".gitignore" {
			continue
		}
		if entry.IsDir() {
			se := StructEntry{Type: "directory", Files: []string{}}
			if children, err := os.ReadDir(a.path(name)); err == nil {
				for i, c := range children {
					if i == structureListing {
						break
					}
					se.Files = append(se.Files, c.Name())
				}
			}
			out[name] = se
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out[name] = StructEntry{Type: "file", Size: info.Size()}
	}
	return out
}

// detectProject applies the manifest rules in order; later matches override
// the project type
func (a *Analyzer) detectProject(s *Snapshot, names map[string]os.DirEntry) {
	has := func(n string) bool { _, ok := names[n]; return ok }

	if has("package.json") {
		s.ProjectType = "Node.js/JavaScript"
		s.Languages = appendUnique(s.Languages, "JavaScript")

		if pkg, ok := a.npmManifest(); ok && pkg.Dependencies != nil {
			deps := pkg.Dependencies
			if _, ok := deps["react"]; ok {
				s.Frameworks = appendUnique(s.Frameworks, "React")
			}
			if _, ok := deps["vue"]; ok {
				s.Frameworks = appendUnique(s.Frameworks, "Vue.js")
			}
			_, ng := deps["angular"]
			_, ngCore := deps["@angular/core"]
			if ng || ngCore {
				s.Frameworks = appendUnique(s.Frameworks, "Angular")
			}
			if _, ok := deps["express"]; ok {
				s.Frameworks = appendUnique(s.Frameworks, "Express.js")
			}
			if _, ok := deps["next"]; ok {
				s.Frameworks = appendUnique(s.Frameworks, "Next.js")
			}
			_, ts := deps["typescript"]
			_, devTS := pkg.DevDependencies["typescript"]
			if ts || devTS {
				s.Languages = appendUnique(s.Languages, "TypeScript")
				s.ProjectType = "Node.js/TypeScript"
			}
		}
	}

	if has("requirements.txt") || has("setup.py") || has("pyproject.toml") {
		s.ProjectType = "Python"
		s.Languages = appendUnique(s.Languages, "Python")

		if req, ok := a.readFile("requirements.txt"); ok {
			for _, fw := range []struct{ needle, name string }{
				{"django", "Django"},
				{"flask", "Flask"},
				{"fastapi", "FastAPI"},
				{"streamlit", "Streamlit"},
			} {
				if strings.Contains(req, fw.needle) {
					s.Frameworks = appendUnique(s.Frameworks, fw.name)
				}
			}
		}
	}

	if has("pom.xml") || has("build.gradle") {
		s.ProjectType = "Java"
		s.Languages = appendUnique(s.Languages, "Java")
		if pom, ok := a.readFile("pom.xml"); ok && strings.Contains(pom, "spring") {
			s.Frameworks = appendUnique(s.Frameworks, "Spring")
		}
	}

	if has("Cargo.toml") {
		s.ProjectType = "Rust"
		s.Languages = appendUnique(s.Languages, "Rust")
	}

	if has("go.mod") {
		s.ProjectType = "Go"
		s.Languages = appendUnique(s.Languages, "Go")
	}

	if has("composer.json") {
		s.ProjectType = "PHP"
		s.Languages = appendUnique(s.Languages, "PHP")

		var composer struct {
			Require map[string]string `json:"require"`
		}
		if data, ok := a.readFile("composer.json"); ok && json.Unmarshal([]byte(data), &composer) == nil {
			if _, ok := composer.Require["laravel/framework"]; ok {
				s.Frameworks = appendUnique(s.Frameworks, "Laravel")
			}
		}
	}
}

func (a *Analyzer) npmManifest() (*NPMManifest, bool) {
	data, ok := a.readFile("package.json")
	if !ok {
		return nil, false
	}
	var pkg NPMManifest
	if err := json.Unmarshal([]byte(data), &pkg); err != nil {
		a.debug("Invalid package.json", "error", err)
		return nil, false
	}
	return &pkg, true
}

func (a *Analyzer) scanLanguages(dir string, depth int, s *Snapshot) {
	if depth > languageScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			if ignoredDirs[name] {
				continue
			}
			a.scanLanguages(filepath.Join(dir, name), depth+1, s)
			continue
		}
		if lang, ok := languageByExt[strings.ToLower(filepath.Ext(name))]; ok {
			s.Languages = appendUnique(s.Languages, lang)
		}
	}
}

func (a *Analyzer) dependencies(names map[string]os.DirEntry) Dependencies {
	var deps Dependencies

	if pkg, ok := a.npmManifest(); ok {
		if pkg.Dependencies == nil {
			pkg.Dependencies = map[string]string{}
		}
		if pkg.DevDependencies == nil {
			pkg.DevDependencies = map[string]string{}
		}
		if pkg.Scripts == nil {
			pkg.Scripts = map[string]string{}
		}
		deps.NPM = pkg
	}

	if req, ok := a.readFile("requirements.txt"); ok {
		deps.Pip = []string{}
		for _, line := range strings.Split(req, "\n") {
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}
			deps.Pip = append(deps.Pip, strings.TrimRight(line, "\r"))
		}
	}

	if _, ok := names["pom.xml"]; ok {
		deps.Maven = "Found pom.xml - Maven project detected"
	}
	if _, ok := names["Cargo.toml"]; ok {
		deps.Cargo = "Found Cargo.toml - Rust project detected"
	}
	return deps
}

func (a *Analyzer) configs(names map[string]os.DirEntry) []string {
	out := []string{}
	for _, name := range sortedNames(names) {
		for _, p := range configPatterns {
			if p.MatchString(name) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func (a *Analyzer) scripts(names map[string]os.DirEntry, deps Dependencies) Scripts {
	var sc Scripts
	if deps.NPM != nil && len(deps.NPM.Scripts) > 0 {
		sc.NPM = deps.NPM.Scripts
	}
	if _, ok := names["setup.py"]; ok {
		sc.Python = "Found setup.py"
	}
	if _, ok := names["Makefile"]; ok {
		sc.Make = "Found Makefile"
	}
	return sc
}

func (a *Analyzer) entryPoints() []string {
	out := []string{}
	for _, prefix := range []string{"", "src"} {
		for _, name := range entryPointNames {
			rel := name
			if prefix != "" {
				rel = prefix + "/" + name
			}
			if _, err := os.Stat(a.path(filepath.FromSlash(rel))); err == nil {
				out = append(out, rel)
			}
		}
	}
	return out
}

// scanTests records test directories without descending into them and
// stops descending once maxTestFiles entries are collected
func (a *Analyzer) scanTests(dir, rel string, s *Snapshot) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || name == "node_modules" {
			continue
		}
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}

		switch {
		case e.IsDir() && testDirNames[name]:
			s.TestFiles = append(s.TestFiles, relPath)
		case e.IsDir():
			if len(s.TestFiles) < maxTestFiles && !ignoredDirs[name] {
				a.scanTests(filepath.Join(dir, name), relPath, s)
			}
		case isTestFile(name):
			s.TestFiles = append(s.TestFiles, relPath)
		}
	}
}

func isTestFile(name string) bool {
	return strings.Contains(name, "test") || strings.Contains(name, "spec")
}

func (a *Analyzer) documentation(names map[string]os.DirEntry) []string {
	out := []string{}
	for _, name := range sortedNames(names) {
		if docNames[strings.ToLower(name)] {
			out = append(out, name)
		}
	}
	return out
}

func (a *Analyzer) gitInfo(ctx context.Context, names map[string]os.DirEntry) GitInfo {
	if _, ok := names[".git"]; !ok || a.Git == nil {
		return GitInfo{}
	}

	info := GitInfo{HasGit: true, CurrentBranch: "unknown"}
	if branch, err := a.Git(ctx, a.Root, "branch", "--show-current"); err == nil {
		info.CurrentBranch = strings.TrimSpace(branch)
	} else {
		a.debug("git branch failed", "error", err)
	}
	if status, err := a.Git(ctx, a.Root, "status", "--porcelain"); err == nil {
		info.HasChanges = strings.TrimSpace(status) != ""
	}
	return info
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

func (a *Analyzer) stats(dir string, depth int, s *Snapshot) {
	if depth > statsDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || ignoredDirs[name] {
			continue
		}
		full := filepath.Join(dir, name)
		if e.IsDir() {
			a.stats(full, depth+1, s)
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}

		s.FileCount++
		if !sourceExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		lines := strings.Count(string(data), "\n") + 1
		s.TotalLines += lines
		if lines > mainFileMinLines && len(s.MainFiles) < maxMainFiles {
			rel, err := filepath.Rel(a.Root, full)
			if err != nil {
				rel = name
			}
			s.MainFiles = append(s.MainFiles, fmt.Sprintf("%s (%d lines)", filepath.ToSlash(rel), lines))
		}
	}
}

func sortedNames(names map[string]os.DirEntry) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
