package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tmarksen/gdfx/pkg/gdimg"
)

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  /  - select and apply a command")
	fmt.Println("  o  - open another image at runtime")
	fmt.Println("  s  - save current image")
	fmt.Println("  i  - identify current image (dimensions, alpha, EXIF)")
	fmt.Println("  p  - preview current image in the terminal")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// previewsEnabled reports whether the automatic preview after load and apply
// is on. GDFX_PREVIEW=0 (or off/false/no) disables it; the p command still
// renders on demand.
func previewsEnabled() bool {
	switch strings.ToLower(os.Getenv("GDFX_PREVIEW")) {
	case "0", "off", "false", "no":
		return false
	}
	return true
}

// promptReader reads one trimmed line through the shared REPL reader so no
// buffered input is lost between prompts.
func promptReader(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Run starts the interactive editor loop. An image path may be supplied as
// the first program argument.
func Run() {
	var inputPath string
	if len(os.Args) >= 2 {
		inputPath = os.Args[1]
	}

	store := NewMetaStore(gdimg.Commands)
	engine := gdimg.NewEngine()

	var cur *gdimg.Bitmap
	var currentPath, currentFormat string

	if inputPath != "" {
		bm, format, err := LoadBitmap(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", inputPath, err)
			os.Exit(1)
		}
		cur = bm
		currentPath = inputPath
		currentFormat = format
		// Initial preview is best effort; stay quiet if the terminal can't.
		if previewsEnabled() {
			_ = PreviewBitmap(cur, currentFormat)
		}
		if info, ierr := GetBitmapInfo(cur, currentFormat); ierr == nil {
			fmt.Println(info)
		}
	}

	fmt.Println("gdfx terminal image editor")
	usage()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		r, _, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return
			}
			fmt.Fprintf(os.Stderr, "read input error: %v\n", err)
			continue
		}

		switch r {
		case '/':
			if cur == nil {
				fmt.Println("No image loaded. Press 'o' to open an image first, or provide an image path as the first argument.")
				continue
			}
			commandName, ok := pickCommand(reader)
			if !ok {
				continue
			}
			c, ok := gdimg.LookupCommand(commandName)
			if !ok {
				fmt.Printf("unknown command: %s\n", commandName)
				continue
			}

			tooltip, _, _ := store.GetCommandHelp(commandName)
			fmt.Println("\n" + tooltip + "\n")

			rawArgs := make([]string, len(c.Args))
			for i, p := range c.Args {
				typeLabel := p.Type
				if opts := enumOptionsFor(p.Name); p.Type == "enum" && len(opts) > 0 {
					typeLabel = "enum(" + strings.Join(opts, "|") + ")"
				}
				prompt := fmt.Sprintf("%s (%s): ", p.Name, typeLabel)

				var val string
				var perr error
				if p.Type == "path" {
					prompt = fmt.Sprintf("%s (%s) [enter a path, or '/' to use fzf]: ", p.Name, typeLabel)
					val, perr = PromptLineWithFzfReader(reader, prompt)
				} else {
					val, perr = promptReader(reader, prompt)
				}
				if perr != nil {
					fmt.Fprintf(os.Stderr, "input error: %v\n", perr)
					val = ""
				}
				rawArgs[i] = val
			}

			normArgs, err := NormalizeArgs(store, commandName, rawArgs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "input validation error: %v\n", err)
				fmt.Println("aborting command due to input errors")
				continue
			}

			// Inspection commands print their report and leave the image alone.
			switch commandName {
			case "identify":
				runIdentify(cur, currentPath, currentFormat)
				continue
			case "histogram":
				runHistogram(cur)
				continue
			case "palette":
				runPalette(cur, normArgs)
				continue
			}

			newBm, err := engine.Apply(cur, commandName, normArgs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "apply command error: %v\n", err)
				continue
			}
			if newBm != nil {
				cur = newBm
			}
			fmt.Printf("Applied %s\n", commandName)
			if previewsEnabled() {
				_ = PreviewBitmap(cur, currentFormat)
			}
			if info, ierr := GetBitmapInfo(cur, currentFormat); ierr == nil {
				fmt.Println(info)
			}

		case 's':
			if cur == nil {
				fmt.Println("No image loaded.")
				continue
			}
			out, _ := promptReader(reader, "Enter output filename: ")
			if out == "" {
				fmt.Println("no filename provided")
				continue
			}
			if err := SaveBitmap(out, cur); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write image: %v\n", err)
				continue
			}
			fmt.Printf("Saved to %s\n", out)

		case 'o':
			selected, selErr := SelectFileWithFzf(".")
			var newPath string
			if selErr != nil || selected == "" {
				newPath, _ = promptReader(reader, "Enter path to image to open (leave empty to cancel): ")
				if newPath == "" {
					fmt.Println("open cancelled")
					continue
				}
			} else {
				newPath = selected
			}

			bm, format, err := LoadBitmap(newPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", newPath, err)
				continue
			}
			cur = bm
			currentPath = newPath
			currentFormat = format
			fmt.Printf("Opened %s\n", newPath)
			if previewsEnabled() {
				_ = PreviewBitmap(cur, currentFormat)
			}
			if info, ierr := GetBitmapInfo(cur, currentFormat); ierr == nil {
				fmt.Println(info)
			}

		case 'i':
			if cur == nil {
				fmt.Println("No image loaded.")
				continue
			}
			runIdentify(cur, currentPath, currentFormat)

		case 'p':
			if cur == nil {
				fmt.Println("No image loaded.")
				continue
			}
			if err := PreviewBitmap(cur, currentFormat); err != nil {
				fmt.Fprintf(os.Stderr, "preview error: %v\n", err)
			}

		case 'u':
			if err := CheckForUpdates(); err != nil {
				fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			}

		case 'h':
			usage()

		case 'q':
			fmt.Println("Exiting...")
			return

		default:
			// ignore newlines and unbound keys
		}
	}
}

// pickCommand resolves a command name via fzf, falling back to a numbered
// textual menu that also accepts names and unambiguous prefixes.
func pickCommand(reader *bufio.Reader) (string, bool) {
	name, err := SelectCommandWithFzf(gdimg.Commands)
	if err == nil && name != "" {
		return name, true
	}

	fmt.Println("Command selection (fallback):")
	for i, c := range gdimg.Commands {
		fmt.Printf("  %d) %s - %s\n", i+1, c.Name, c.Description)
	}
	selection, _ := promptReader(reader, "Enter number or command name (leave empty to cancel): ")
	if selection == "" {
		fmt.Println("selection cancelled")
		return "", false
	}

	if idx, perr := strconv.Atoi(selection); perr == nil {
		if idx < 1 || idx > len(gdimg.Commands) {
			fmt.Println("invalid selection")
			return "", false
		}
		return gdimg.Commands[idx-1].Name, true
	}

	selLower := strings.ToLower(selection)
	for _, c := range gdimg.Commands {
		if strings.ToLower(c.Name) == selLower {
			return c.Name, true
		}
	}
	var matches []string
	for _, c := range gdimg.Commands {
		if strings.HasPrefix(strings.ToLower(c.Name), selLower) {
			matches = append(matches, c.Name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], true
	case 0:
		fmt.Printf("unknown command: %s\n", selection)
		return "", false
	default:
		fmt.Println("ambiguous selection, candidates:")
		for _, m := range matches {
			fmt.Println("  " + m)
		}
		return "", false
	}
}

// runIdentify prints the bitmap summary plus any EXIF tags the source file
// carries.
func runIdentify(bm *gdimg.Bitmap, path, format string) {
	if info, err := GetBitmapInfo(bm, format); err == nil {
		fmt.Println(info)
	}
	if path == "" {
		fmt.Println("identify: no source path available for EXIF")
		return
	}
	ex, err := ExtractEXIF(path)
	if err != nil {
		fmt.Printf("no EXIF data (%v)\n", err)
		return
	}
	fmt.Print(FormatEXIF(ex))
}

// runHistogram prints per-channel mean and peak statistics.
func runHistogram(bm *gdimg.Bitmap) {
	for _, ch := range gdimg.HistogramStats(bm) {
		fmt.Printf("%s: mean %6.1f  peak bin %3d\n", ch.Name, ch.Mean, ch.Peak)
	}
}

// runPalette prints the dominant colors of the current image.
func runPalette(bm *gdimg.Bitmap, args []string) {
	count := 5
	if len(args) >= 1 && args[0] != "" {
		if n, err := strconv.Atoi(args[0]); err == nil {
			count = n
		}
	}
	entries := gdimg.DominantColors(bm, count)
	if len(entries) == 0 {
		fmt.Println("no opaque pixels to sample")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  rgb(%3d,%3d,%3d)  %5.1f%%\n", e.Hex, e.Color.R, e.Color.G, e.Color.B, e.Share*100)
	}
}
