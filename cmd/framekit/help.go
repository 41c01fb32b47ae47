package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), helpData{
		Program: e.of.Program(),
		Flags:   collectFlags(e.of.FlagSet()),
	})
	if err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

type helpData struct {
	Program string
	Flags   []flagInfo
}

func collectFlags(fs *flag.FlagSet) []flagInfo {
	var flags []flagInfo
	if fs == nil {
		return flags
	}
	fs.VisitAll(func(f *flag.Flag) {
		flags = append(flags, flagInfo{f.Name, f.DefValue, f.Usage})
	})
	return flags
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Fprintln(os.Stderr, (&UsageError{of: h}).Error())
	}
}

func (r *root) Template() string { return "root.txt" }

func (s *studioCmd) Template() string { return "studio.txt" }

func (c *composeCmd) Template() string { return "compose.txt" }

func (b *batchCmd) Template() string { return "batch.txt" }

func (g *galleryCmd) Template() string { return "gallery.txt" }

func (c *configCmd) Template() string { return "config.txt" }
