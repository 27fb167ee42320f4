// Command delver is a thin CLI around delver.Process: read a PDF path and
// a template JSON path, optionally a password, and write the resulting
// match tree's JSON to stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/delvergo/delver"
	"github.com/delvergo/delver/config"
)

func main() {
	pdfPath := flag.String("pdf", "", "path to the PDF file to process")
	templatePath := flag.String("template", "", "path to the template JSON file")
	password := flag.String("password", "", "password for an encrypted PDF, if any")
	flag.Parse()

	if *pdfPath == "" || *templatePath == "" {
		fmt.Fprintln(os.Stderr, "usage: delver -pdf <file.pdf> -template <template.json> [-password pw]")
		os.Exit(2)
	}

	if err := run(*pdfPath, *templatePath, *password); err != nil {
		fmt.Fprintln(os.Stderr, "delver:", err)
		os.Exit(1)
	}
}

func run(pdfPath, templatePath, password string) error {
	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	templateBytes, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	root, err := parseTemplateRoot(templateBytes)
	if err != nil {
		return err
	}

	var opts []config.Option
	if password != "" {
		opts = append(opts, config.WithPassword(password))
	}

	result, err := delver.Process(pdfBytes, root, nil, opts...)
	if err != nil {
		return fmt.Errorf("process pdf: %w", err)
	}

	out, err := result.JSON()
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
