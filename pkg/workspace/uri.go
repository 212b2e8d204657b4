package workspace

import (
	"net/url"
	"strings"

	"github.com/pantheon-run/pantheon/pkg/perr"
)

// SectionsResolver extracts a JSON value from compiled artifact-section-markers
// DSL-C content at the given WYSIWYG dotted data path (spec.md §4.5). It is
// owned by pkg/artifactengine, which is the only component that knows how to
// compile DSL-C and walk a WYSIWYG path; Workspace depends on it only through
// this narrow function type to avoid an import cycle (artifactengine already
// depends on Workspace to read process assets).
type SectionsResolver func(markersContent string, dataPath string) (string, error)

// SetSectionsResolver wires the DSL-C-aware extractor used by
// artifact-sections://…?data=… URIs. Until called, such URIs fail with
// Unsupported rather than panicking, so a Workspace built without an
// ArtifactEngine (e.g. in this package's own tests) still behaves sanely.
func (w *Workspace) SetSectionsResolver(resolver SectionsResolver) {
	w.sectionsResolver = resolver
}

// parsedURI is a decoded semantic URI per spec.md §4.4.2.
type parsedURI struct {
	scheme  string
	process string
	subPath string
	params  map[string]string
}

// ParseURI decodes `scheme://process[/sub_path][?k=v&…]`. Missing `=` in a
// param pair is treated as an empty value, per spec.md §4.4.2.
func ParseURI(uri string) (parsedURI, error) {
	schemeEnd := strings.Index(uri, "://")
	if schemeEnd <= 0 {
		return parsedURI{}, perr.New(perr.KindMalformedURI, "missing scheme separator").WithPath(uri)
	}
	scheme := uri[:schemeEnd]
	rest := uri[schemeEnd+3:]

	var query string
	if qIdx := strings.Index(rest, "?"); qIdx >= 0 {
		query = rest[qIdx+1:]
		rest = rest[:qIdx]
	}

	process := rest
	subPath := ""
	if slashIdx := strings.Index(rest, "/"); slashIdx >= 0 {
		process = rest[:slashIdx]
		subPath = rest[slashIdx+1:]
	}
	if process == "" {
		return parsedURI{}, perr.New(perr.KindMalformedURI, "missing process name").WithPath(uri)
	}

	params := map[string]string{}
	if query != "" {
		for _, pair := range strings.Split(query, "&") {
			if pair == "" {
				continue
			}
			if eqIdx := strings.Index(pair, "="); eqIdx >= 0 {
				key, _ := url.QueryUnescape(pair[:eqIdx])
				val, _ := url.QueryUnescape(pair[eqIdx+1:])
				params[key] = val
			} else {
				key, _ := url.QueryUnescape(pair)
				params[key] = ""
			}
		}
	}

	return parsedURI{scheme: scheme, process: process, subPath: subPath, params: params}, nil
}

// GetResolvedContent parses uri and routes it to the matching content
// retriever per the spec.md §4.4.2 routing table.
func (w *Workspace) GetResolvedContent(uri string) (string, error) {
	p, err := ParseURI(uri)
	if err != nil {
		return "", err
	}

	switch p.scheme {
	case "artifact-content-template":
		return w.GetArtifactContentTemplate(p.process)
	case "artifact-directory-template":
		return w.GetArtifactDirectoryTemplate(p.process)
	case "artifact-filename-template":
		return w.GetArtifactFilenameTemplate(p.process)
	case "artifact-locator":
		return w.GetArtifactLocator(p.process)
	case "artifact-parser":
		return w.GetArtifactParser(p.process)
	case "artifact-section-markers":
		return w.GetArtifactSectionMarkers(p.process)
	case "artifact-sections":
		return w.getArtifactSections(p.process, p.params["data"])
	case "process-routine":
		return w.GetProcessRoutine(p.process)
	case "process-schema":
		if p.subPath != "" {
			return w.GetSectionSchema(p.process, p.subPath)
		}
		return w.GetProcessSchema(p.process)
	case "artifact-template":
		if p.subPath == "" {
			return "", perr.New(perr.KindMalformedURI, "artifact-template requires a sub-path").WithPath(uri)
		}
		return w.GetArtifactSectionTemplate(p.process, p.subPath)
	default:
		return "", perr.New(perr.KindUnsupportedScheme, "unknown semantic URI scheme").WithField(p.scheme).WithPath(uri)
	}
}

// getArtifactSections implements get_artifact_sections(process, data?):
// with no data param it is exactly artifact-section-markers; with one, the
// compiled markers DSL-C is walked at that WYSIWYG path via sectionsResolver.
func (w *Workspace) getArtifactSections(process, dataPath string) (string, error) {
	markers, err := w.GetArtifactSectionMarkers(process)
	if err != nil {
		return "", err
	}
	if dataPath == "" {
		return markers, nil
	}
	if w.sectionsResolver == nil {
		return "", perr.New(perr.KindUnsupportedScheme, "artifact-sections data lookup requires an ArtifactEngine-backed resolver").WithProcess(process)
	}
	return w.sectionsResolver(markers, dataPath)
}
