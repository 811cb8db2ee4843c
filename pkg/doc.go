// Package pkg provides the libraries behind nimgraph, a harvester of the
// direct dependencies of nimble (Nim) projects.
//
// # Overview
//
// The data flow through nimgraph:
//
//	project directory
//	         ↓
//	    [deps] (discover lockfiles and manifests, extract records)
//	         ↓            ↘
//	         ↓        [integrations/nimble] (dump manifests, search registry)
//	         ↓
//	    [integrations/github] (canonical repository URLs)
//	         ↓
//	    [io] (JSON, YAML, TOML, DOT, SVG)
//
// Supporting packages:
//
//   - [cache]: memoised registry lookups
//   - [errors]: structured error codes
//   - [observability]: hooks around external commands and cache lookups
//   - [buildinfo]: version stamping
//
// # Quick Start
//
//	pm := nimble.NewClient("nimble", nimble.WithCache(cache.NewMemoryCache(), 0))
//	res, err := deps.NewResolver(afero.NewOsFs(), pm, deps.Options{}).
//	    Resolve(ctx, "./project", "github.com/me/project")
//	if err != nil {
//	    return err
//	}
//	return io.WriteJSON(res.Root, os.Stdout)
//
// [deps]: github.com/matzehuels/nimgraph/pkg/deps
// [integrations/nimble]: github.com/matzehuels/nimgraph/pkg/integrations/nimble
// [integrations/github]: github.com/matzehuels/nimgraph/pkg/integrations/github
// [io]: github.com/matzehuels/nimgraph/pkg/io
// [cache]: github.com/matzehuels/nimgraph/pkg/cache
// [errors]: github.com/matzehuels/nimgraph/pkg/errors
// [observability]: github.com/matzehuels/nimgraph/pkg/observability
// [buildinfo]: github.com/matzehuels/nimgraph/pkg/buildinfo
package pkg
