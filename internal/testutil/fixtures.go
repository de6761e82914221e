package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureDomains contiene dominios de prueba válidos.
var FixtureDomains = []string{
	"example.com",
	"test.example.com",
	"Example.ORG",
	"my-site.co.uk",
	"xn--bcher-kva.example",
}

// FixtureInvalidDomains contiene dominios inválidos.
var FixtureInvalidDomains = []string{
	"",
	"not a domain",
	"192.168.1.1",
	"-bad.com",
	"invalid-.com",
	".example.com",
	"example.com.",
	"a..b.com",
	"*.com",
	"*.example.com",
	"exa_mple.com",
	"example.com/path",
}

// FixtureCRTResponse es una respuesta típica de crt.sh con SANs multilínea.
const FixtureCRTResponse = `[
  {"issuer_name": "C=US, O=Let's Encrypt, CN=R3", "name_value": "a.example.com\nb.example.com", "serial_number": "01"},
  {"issuer_name": "C=US, O=Let's Encrypt, CN=R3", "name_value": "*.example.com\nexample.com", "serial_number": "02"}
]`

// FixtureHackerTargetResponse es una respuesta de hostsearch (host,ip por línea).
const FixtureHackerTargetResponse = "www.example.com,93.184.216.34\nmail.example.com,93.184.216.35\nexample.com,93.184.216.34\nexample.net,1.2.3.4\n"
