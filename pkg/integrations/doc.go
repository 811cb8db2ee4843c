// Package integrations groups the adapters nimgraph uses to talk to the
// outside world. Each one has its own subpackage:
//
//   - [github]: recognises GitHub repository references and reduces them
//     to the canonical github.com/owner/repo form
//   - [nimble]: runs the nimble package manager and parses its output
//
// [github]: github.com/matzehuels/nimgraph/pkg/integrations/github
// [nimble]: github.com/matzehuels/nimgraph/pkg/integrations/nimble
package integrations
