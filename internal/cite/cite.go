// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite generates citations for catalog datasets: a plain-text
// reference for pasting into manuscripts and a CSL item for reference
// managers. Citations are a pure function of the descriptor and the
// resolved DOI; nothing here touches the network.
package cite

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/inspercidados/cidados/internal/catalog"
)

// FallbackOrganization is cited as the author when a descriptor lists none.
const FallbackOrganization = "Insper Cidades"

// Plain renders a single-line reference in the house style:
// authors, title, optional year and version, DOI URL. Year 0 omits the year.
func Plain(d *catalog.Descriptor, doi string, year int) string {
	var b strings.Builder

	authors := d.Authors
	if len(authors) == 0 {
		authors = []string{FallbackOrganization}
	}
	b.WriteString(strings.Join(authors, "; "))
	b.WriteString(". ")
	b.WriteString(d.Title)
	if year != 0 {
		fmt.Fprintf(&b, " (%d)", year)
	}
	b.WriteString(". ")
	if d.Version != "" {
		fmt.Fprintf(&b, "Versão %s. ", d.Version)
	}
	fmt.Fprintf(&b, "%s. https://doi.org/%s", FallbackOrganization, doi)
	return b.String()
}

// CSLItem represents the dataset in CSL (Citation Style Language) format.
// Field names follow the CSL-JSON/CSL-YAML schema so that output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Publisher string    `yaml:"publisher"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	Version   string    `yaml:"version,omitempty"`
	DOI       string    `yaml:"DOI"`
}

// CSLName represents an author in CSL format. Institutional authors use the
// literal field.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL date-parts format.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// Item builds the CSL item for a descriptor and resolved DOI.
func Item(d *catalog.Descriptor, doi string, year int) CSLItem {
	item := CSLItem{
		ID:        d.ID,
		Type:      "dataset",
		Title:     d.Title,
		Publisher: FallbackOrganization,
		Version:   d.Version,
		DOI:       doi,
	}
	if year != 0 {
		item.ID = fmt.Sprintf("%s_%d", d.ID, year)
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}

	authors := d.Authors
	if len(authors) == 0 {
		authors = []string{FallbackOrganization}
	}
	for _, a := range authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	return item
}

// FormatCSL writes the item as a one-element CSL-YAML list to w.
func FormatCSL(item CSLItem, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode([]CSLItem{item})
}

// Institutional markers in Brazilian organization names. A name containing
// one is never split into given/family parts.
var institutionalTokens = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"prefeitura": true, "secretaria": true, "instituto": true,
	"insper": true, "metrô": true, "metro": true, "cidades": true,
}

// parseAuthorName maps an author string to a CSL name. Institutional
// authors (city halls, agencies, research centers) use the literal field;
// personal names split on the last space into given and family.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	tokens := strings.Fields(name)
	if len(tokens) == 1 {
		return CSLName{Literal: name}
	}
	for _, tok := range tokens {
		if institutionalTokens[strings.ToLower(tok)] {
			return CSLName{Literal: name}
		}
	}
	idx := strings.LastIndex(name, " ")
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
