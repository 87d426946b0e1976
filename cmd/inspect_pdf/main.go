package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func main() {
	pdfPath := flag.String("file", "", "Path to PDF file")
	showText := flag.Bool("text", true, "print the text found on each page")
	flag.Parse()

	if *pdfPath == "" {
		fmt.Println("Please provide a PDF file path using -file flag")
		os.Exit(1)
	}

	fmt.Printf("Analyzing PDF: %s\n", *pdfPath)

	dims, err := api.PageDimsFile(*pdfPath)
	if err != nil {
		fmt.Printf("Error getting page dimensions: %v\n", err)
		os.Exit(1)
	}

	doc, err := fitz.New(*pdfPath)
	if err != nil {
		fmt.Printf("Error opening PDF: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	fmt.Printf("Pages: %d\n", len(dims))

	// fitz pages are zero indexed, pdfcpu dims follow the same order.
	for i, dim := range dims {
		fmt.Printf("\nPage %d:\n", i+1)
		fmt.Printf("Dimensions (Width x Height): %.3f x %.3f points\n", dim.Width, dim.Height)

		if !*showText || i >= doc.NumPage() {
			continue
		}
		text, err := doc.Text(i)
		if err != nil {
			fmt.Printf("Error extracting text: %v\n", err)
			continue
		}
		for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
			fmt.Printf("  | %s\n", line)
		}
	}
}
