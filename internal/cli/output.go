package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
)

// Output formats accepted by show.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

func render(w io.Writer, doc *content.Document, format string) error {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(format) {
	case FormatText, "":
		_, err = io.WriteString(w, renderText(doc))
		return err
	case FormatJSON:
		out, err = json.MarshalIndent(doc, "", "  ")
		out = append(out, '\n')
	case FormatYAML:
		out, err = yaml.Marshal(doc)
	case FormatTOML:
		out, err = toml.Marshal(doc)
	default:
		return fmt.Errorf("unknown output format %q (want text, json, yaml or toml)", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}

func renderText(doc *content.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", doc.HeroTitle, doc.HeroSubtitle, doc.HeroDescription)
	fmt.Fprintf(&b, "%s\n%s\n\n", doc.AboutTitle, doc.AboutDescription)
	b.WriteString("Services\n")
	for i, s := range doc.Services {
		fmt.Fprintf(&b, "  %d. %s\n     %s\n", i+1, s.Name, s.Description)
	}
	return b.String()
}
