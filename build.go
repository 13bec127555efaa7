//go:build ignore

// build.go - launchdash build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, clean, release, package

package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	module     = "launchdash"
	cmdPackage = "./cmd/launchdash"
	distDir    = "dist"
)

var (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	GOOS    string
	GOARCH  string
}

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	goos := flag.String("os", runtime.GOOS, "Target operating system")
	goarch := flag.String("arch", runtime.GOARCH, "Target architecture")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{Verbose: *verbose, GOOS: *goos, GOARCH: *goarch}

	var err error
	switch *target {
	case "build":
		_, err = buildExecutable(ctx, false)
	case "test":
		err = runTests(ctx)
	case "clean":
		err = clean()
	case "release":
		_, err = buildExecutable(ctx, true)
	case "package":
		err = createPackage(ctx)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Done in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        launchdash - Build System          " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

// gitOutput runs git and returns its trimmed output, or "" on failure
func gitOutput(args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func buildExecutable(ctx *BuildContext, release bool) (string, error) {
	name := module
	if ctx.GOOS == "windows" {
		name += ".exe"
	}
	outputPath := filepath.Join(distDir, ctx.GOOS+"_"+ctx.GOARCH, name)
	printInfo(fmt.Sprintf("Building %s for %s/%s...", name, ctx.GOOS, ctx.GOARCH))

	ldflags := fmt.Sprintf("-X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, gitOutput("rev-parse", "--short", "HEAD"))
	if release {
		ldflags = "-s -w " + ldflags
	}

	args := []string{"build"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	if release {
		args = append(args, "-trimpath")
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, cmdPackage)

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "GOOS="+ctx.GOOS, "GOARCH="+ctx.GOARCH, "CGO_ENABLED=0")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if ctx.Verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
	}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to build %s: %w", name, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
	return outputPath, nil
}

func runTests(ctx *BuildContext) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go tests failed: %w", err)
	}
	printSuccess("All tests passed")
	return nil
}

func clean() error {
	printInfo("Cleaning build artifacts and logs...")
	for _, dir := range []string{distDir, "logs"} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clean %s: %w", dir, err)
		}
	}
	printSuccess("Build artifacts cleaned")
	return nil
}

// createPackage zips a release binary with the sample config and dataset
func createPackage(ctx *BuildContext) error {
	binary, err := buildExecutable(ctx, true)
	if err != nil {
		return err
	}

	archive := filepath.Join(distDir, fmt.Sprintf("%s_%s_%s.zip", module, ctx.GOOS, ctx.GOARCH))
	printInfo("Creating " + archive)

	out, err := os.Create(archive)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	files := map[string]string{
		binary:                    filepath.Base(binary),
		"configs/launchdash.yaml": "configs/launchdash.yaml",
		"spacex_launch_dash.csv":  "spacex_launch_dash.csv",
	}
	for src, dest := range files {
		if err := addToZip(zw, src, dest); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}

	printSuccess("Package created: " + archive)
	return nil
}

func addToZip(zw *zip.Writer, src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	w, err := zw.Create(filepath.ToSlash(dest))
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", dest, err)
	}
	_, err = io.Copy(w, in)
	return err
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-os=GOOS] [-arch=GOARCH]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  build     Build launchdash into dist/<os>_<arch>/ (default)")
	fmt.Println("  test      Run all Go tests with the race detector")
	fmt.Println("  clean     Remove dist/ and logs/")
	fmt.Println("  release   Build a stripped, trimmed binary")
	fmt.Println("  package   Build a release and zip it with the sample config and dataset")
}
