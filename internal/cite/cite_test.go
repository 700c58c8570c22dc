// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"bytes"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/inspercidados/cidados/internal/catalog"
)

func TestPlain(t *testing.T) {
	tests := []struct {
		name string
		desc catalog.Descriptor
		doi  string
		year int
		want string
	}{
		{
			name: "yearly with authors and version",
			desc: catalog.Descriptor{
				Title:   "IPTU São Paulo",
				Authors: []string{"Prefeitura de São Paulo"},
				Version: "2.0",
			},
			doi:  "10.7910/DVN/XYZ",
			year: 2024,
			want: "Prefeitura de São Paulo. IPTU São Paulo (2024). Versão 2.0. Insper Cidades. https://doi.org/10.7910/DVN/XYZ",
		},
		{
			name: "non-yearly without authors falls back to the organization",
			desc: catalog.Descriptor{Title: "Pesquisa de Mobilidade"},
			doi:  "10.7910/DVN/ABC",
			want: "Insper Cidades. Pesquisa de Mobilidade. Insper Cidades. https://doi.org/10.7910/DVN/ABC",
		},
		{
			name: "multiple authors joined with semicolons",
			desc: catalog.Descriptor{
				Title:   "Origem e Destino",
				Authors: []string{"Metrô de São Paulo", "Ana Souza"},
			},
			doi:  "10.1/OD",
			year: 2017,
			want: "Metrô de São Paulo; Ana Souza. Origem e Destino (2017). Insper Cidades. https://doi.org/10.1/OD",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plain(&tt.desc, tt.doi, tt.year); got != tt.want {
				t.Errorf("Plain =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestItem(t *testing.T) {
	desc := catalog.Descriptor{
		ID:      "iptu_sp",
		Title:   "IPTU São Paulo",
		Authors: []string{"Prefeitura de São Paulo", "Maria da Silva Santos"},
		Version: "1.0",
	}

	item := Item(&desc, "10.7910/DVN/XYZ", 2024)

	if item.ID != "iptu_sp_2024" {
		t.Errorf("ID = %q, want iptu_sp_2024", item.ID)
	}
	if item.Type != "dataset" {
		t.Errorf("Type = %q, want dataset", item.Type)
	}
	if item.DOI != "10.7910/DVN/XYZ" {
		t.Errorf("DOI = %q", item.DOI)
	}
	if item.Issued == nil || item.Issued.DateParts[0][0] != 2024 {
		t.Errorf("Issued = %+v, want date-parts [[2024]]", item.Issued)
	}
	if len(item.Author) != 2 {
		t.Fatalf("Author = %d entries, want 2", len(item.Author))
	}
	if item.Author[0].Literal != "Prefeitura de São Paulo" {
		t.Errorf("institutional author = %+v, want literal", item.Author[0])
	}
	if item.Author[1].Literal != "Maria da Silva Santos" {
		t.Errorf("author with particles = %+v, should stay literal", item.Author[1])
	}
}

func TestItemNonYearly(t *testing.T) {
	desc := catalog.Descriptor{ID: "pemob", Title: "PeMob"}
	item := Item(&desc, "10.1/P", 0)

	if item.ID != "pemob" {
		t.Errorf("ID = %q, want pemob", item.ID)
	}
	if item.Issued != nil {
		t.Errorf("Issued = %+v, want nil for year 0", item.Issued)
	}
	if len(item.Author) != 1 || item.Author[0].Literal != FallbackOrganization {
		t.Errorf("Author = %+v, want the fallback organization", item.Author)
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		name string
		want CSLName
	}{
		{"Prefeitura de São Paulo", CSLName{Literal: "Prefeitura de São Paulo"}},
		{"Metrô São Paulo", CSLName{Literal: "Metrô São Paulo"}},
		{"Insper Cidades", CSLName{Literal: "Insper Cidades"}},
		{"Ana Souza", CSLName{Given: "Ana", Family: "Souza"}},
		{"Ana Clara Souza", CSLName{Given: "Ana Clara", Family: "Souza"}},
		{"IBGE", CSLName{Literal: "IBGE"}},
		{"", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.name); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestFormatCSL(t *testing.T) {
	desc := catalog.Descriptor{ID: "iptu_sp", Title: "IPTU São Paulo", Version: "1.0"}
	var buf bytes.Buffer
	if err := FormatCSL(Item(&desc, "10.7910/DVN/XYZ", 2024), &buf); err != nil {
		t.Fatalf("FormatCSL = %v", err)
	}

	// Output must parse back as a one-element CSL list.
	var items []CSLItem
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(items) != 1 || items[0].DOI != "10.7910/DVN/XYZ" {
		t.Errorf("round-tripped items = %+v", items)
	}
	if !strings.Contains(buf.String(), "type: dataset") {
		t.Errorf("output missing the CSL type:\n%s", buf.String())
	}
}
