// internal/sources/wordlist/labels.go
package wordlist

import (
	"bufio"
	"io"
	"os"
	"strings"

	"subhound/internal/platform/errors"
	"subhound/internal/platform/validator"
)

// builtin son los labels más comunes en infraestructura pública.
var builtin = []string{
	"www", "mail", "ftp", "localhost", "webmail", "smtp", "pop", "ns1", "webdisk",
	"ns2", "cpanel", "whm", "autodiscover", "autoconfig", "mx", "test", "dev",
	"staging", "api", "admin", "blog", "shop", "forum", "support", "help",
	"secure", "ssl", "vpn", "remote", "demo", "beta", "alpha", "mobile", "app",
	"cdn", "static", "media", "images", "img", "assets", "files", "portal",
	"server", "ns", "email", "cloud", "backup", "mysql", "sql", "database", "db",
	"ftp2", "ns3", "dns", "search", "login", "panel", "control", "secure2",
	"admin2", "test2", "demo2", "beta2", "alpha2", "old", "new", "web", "web1",
	"web2", "home", "my", "all", "mobile2", "store", "news", "download", "upload",
	"video", "music", "game", "chat",
}

// Builtin devuelve una copia de la wordlist incorporada.
func Builtin() []string {
	return append([]string(nil), builtin...)
}

// LoadFile lee labels adicionales de path: uno por línea, '#' inicia un comentario.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "open wordlist %s: %v", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse lee labels de r. Las líneas vacías o inválidas se descartan.
func Parse(r io.Reader) ([]string, error) {
	var labels []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		label := strings.ToLower(strings.TrimSpace(line))
		if label == "" || !validator.IsLabel(label) {
			continue
		}
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read wordlist: %v", err)
	}

	return labels, nil
}

// merge concatena listas conservando la primera aparición de cada label.
func merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, l := range list {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}
