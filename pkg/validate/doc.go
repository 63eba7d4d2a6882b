// Package validate checks the structural and semantic integrity of a master
// standards document.
//
// Validation is rule based. Each rule is a pure function from a Context to a
// list of findings and registers itself with the global registry from an
// init() function; import the rules package to register the built-in set:
//
//	import _ "github.com/oddessentials/repo-standards/pkg/validate/rules"
//
// A Validator runs every enabled rule in ID order and concatenates the
// findings. It never stops at the first failure, so a single run reports
// every problem in the document.
package validate
