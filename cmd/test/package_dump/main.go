// Test program for inspecting a .docx package before and after rebranding
//
// Usage:
//
//	go run ./cmd/test/package_dump/main.go <docx-file> (<part-name> ...)
//
// This program prints:
// - Every part in the package, sorted
// - The relationship ids of word/_rels/document.xml.rels
// - The header/footer references inside each w:sectPr
// - The contents of any additional parts named on the command line
package main

import (
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/yuanying/docx-rebrand/internal/ooxml"
)

var (
	relID      = regexp.MustCompile(`<Relationship\s[^>]*Id="([^"]*)"[^>]*Target="([^"]*)"`)
	sectPr     = regexp.MustCompile(`(?s)<w:sectPr[\s>].*?</w:sectPr>|<w:sectPr\s*/>`)
	sectionRef = regexp.MustCompile(`<w:(header|footer)Reference\s[^>]*r:id="([^"]*)"`)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/package_dump/main.go <docx-file> (<part-name> ...)")
		os.Exit(1)
	}

	docxPath := os.Args[1]
	partNames := os.Args[2:]

	fmt.Printf("Opening package: %s\n", docxPath)
	data, err := os.ReadFile(docxPath)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}
	pkg, err := ooxml.Open(data)
	if err != nil {
		log.Fatalf("Failed to open package: %v", err)
	}

	names := pkg.SortedNames()
	fmt.Printf("✓ Package opened successfully\n")
	fmt.Printf("Total parts: %d\n", len(names))
	fmt.Println("\nPart list:")
	for _, name := range names {
		b, _ := pkg.ReadBinary(name)
		fmt.Printf("  - %s (%d bytes)\n", name, len(b))
	}

	fmt.Printf("\nRelationships (%s):\n", ooxml.DocumentRelsPath)
	if rels, err := pkg.ReadText(ooxml.DocumentRelsPath); err != nil {
		fmt.Printf("  unavailable: %v\n", err)
	} else {
		for _, m := range relID.FindAllStringSubmatch(rels, -1) {
			fmt.Printf("  %s -> %s\n", m[1], m[2])
		}
	}

	fmt.Println("\nSection properties:")
	doc, err := pkg.ReadText(ooxml.DocumentPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", ooxml.DocumentPath, err)
	}
	for i, sect := range sectPr.FindAllString(doc, -1) {
		fmt.Printf("  sectPr #%d\n", i+1)
		for _, m := range sectionRef.FindAllStringSubmatch(sect, -1) {
			fmt.Printf("    %sReference r:id=%s\n", m[1], m[2])
		}
	}

	for _, name := range partNames {
		fmt.Printf("\nReading part: %s\n", name)
		content, err := pkg.ReadText(name)
		if err != nil {
			log.Fatalf("Failed to read part %s: %v", name, err)
		}
		fmt.Printf("✓ Part %s read successfully (%d bytes)\n", name, len(content))
		fmt.Printf("Content:\n%s\n", content)
	}

	fmt.Println("\n✓ Done")
}
