// Package script implements the Script Analyzer (spec.md §4.2): a
// non-executing abstract interpreter over the concrete syntax tree of a
// setup.py-style installer script. It locates the top-level installer call
// and resolves its keyword arguments against the lexical scope, never
// importing or evaluating arbitrary code.
package script

import (
	"log"
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/ekdahl-rope/setuppy-infer/internal/setuppy/record"
)

// maxDepth bounds recursive evaluation (§5: "recommended: 256"); exceeding it
// yields Unresolvable rather than overflowing the Go call stack on a
// maliciously or accidentally deeply nested script.
const maxDepth = 256

// installerNames are the qualified names recognized as the top-level
// installer entry point (§4.2 "Locating the installer call").
var installerNames = map[string]bool{
	"installer.setup":    true,
	"legacy.setup":       true,
	"build_helper.setup": true,
	"setup":              true,
}

// discoveryNames are qualified names recognized as the package-discovery
// helper (§4.2, the `find_packages`-shaped whitelisted call).
var discoveryNames = map[string]bool{
	"find_packages":                      true,
	"setuptools.find_packages":           true,
	"find_namespace_packages":            true,
	"setuptools.find_namespace_packages": true,
}

// NoInstallerCall is returned when no recognized installer invocation is
// found anywhere in the script (§7).
type NoInstallerCall struct {
	File string
}

func (e *NoInstallerCall) Error() string {
	return "no recognized installer call found in " + e.File
}

// assignment is one `name = value` or augmented-assignment site, keyed by
// the line it occurs on. §4.2's scope table is a mapping from name to an
// ordered list of these.
type assignment struct {
	line      uint
	valueNode *tree_sitter.Node
	augOp     string // non-empty for augmented assignment ("+=" etc.)
}

// analyzer holds the parsed tree and the scope table built from a single
// pass over it.
type analyzer struct {
	source []byte
	scope  map[string][]assignment
	calls  []*tree_sitter.Node
}

// Analyze parses source as a Python script and evaluates the first
// recognized installer call's keyword arguments. It never executes source.
func Analyze(filename string, source []byte) (*record.MetadataRecord, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_python.Language()))

	tree := parser.Parse(source, nil)
	defer tree.Close()

	a := &analyzer{
		source: source,
		scope:  make(map[string][]assignment),
	}
	a.collectScope(tree.RootNode())
	a.collectCalls(tree.RootNode())

	call := a.findInstallerCall()
	if call == nil {
		return nil, &NoInstallerCall{File: filename}
	}
	return a.buildRecord(call), nil
}

// collectScope walks the whole tree once, recording every assignment and
// augmented assignment site. The scope table is built before any evaluation
// happens, so name resolution (§4.2) can freely look both forward and
// backward in the source and rely on the target_line constraint to break
// cycles instead of traversal order.
func (a *analyzer) collectScope(node *tree_sitter.Node) {
	if node == nil {
		return
	}
	switch node.GrammarName() {
	case "assignment":
		a.recordAssignment(node, "")
	case "augmented_assignment":
		a.recordAugmentedAssignment(node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		a.collectScope(node.Child(i))
	}
}

func (a *analyzer) recordAssignment(node *tree_sitter.Node, op string) {
	var targetNode, valueNode *tree_sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch {
		case child.GrammarName() == "identifier" && targetNode == nil:
			targetNode = child
		case child.GrammarName() != "=" && child.GrammarName() != ":" && valueNode == nil && targetNode != nil:
			valueNode = child
		}
	}
	if targetNode == nil || valueNode == nil {
		return
	}
	name := a.text(targetNode)
	a.scope[name] = append(a.scope[name], assignment{
		line:      node.StartPosition().Row + 1,
		valueNode: valueNode,
		augOp:     op,
	})
}

func (a *analyzer) recordAugmentedAssignment(node *tree_sitter.Node) {
	var targetNode, valueNode *tree_sitter.Node
	var op string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.GrammarName()
		switch {
		case kind == "identifier" && targetNode == nil:
			targetNode = child
		case strings.HasSuffix(kind, "=") && kind != "==" && kind != "!=" && kind != "<=" && kind != ">=":
			op = kind
		case targetNode != nil && valueNode == nil:
			valueNode = child
		}
	}
	if targetNode == nil || valueNode == nil || op == "" {
		return
	}
	name := a.text(targetNode)
	a.scope[name] = append(a.scope[name], assignment{
		line:      node.StartPosition().Row + 1,
		valueNode: valueNode,
		augOp:     op,
	})
}

// collectCalls gathers every call-expression node in source order.
func (a *analyzer) collectCalls(node *tree_sitter.Node) {
	if node == nil {
		return
	}
	if node.GrammarName() == "call" {
		a.calls = append(a.calls, node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		a.collectCalls(node.Child(i))
	}
}

// findInstallerCall returns the first call node (in source order) whose
// qualified function name matches a recognized installer entry point. Since
// calls are collected in document order, an installer call's own nested
// calls (if any) sort after it and are never mistaken for the installer —
// this is what gives us "descent into its arguments is suppressed" for
// free, without a separate suppression pass.
func (a *analyzer) findInstallerCall() *tree_sitter.Node {
	for _, call := range a.calls {
		if installerNames[a.qualifiedCallName(call)] {
			return call
		}
	}
	return nil
}

func (a *analyzer) qualifiedCallName(call *tree_sitter.Node) string {
	for i := uint(0); i < call.ChildCount(); i++ {
		child := call.Child(i)
		kind := child.GrammarName()
		if kind == "identifier" {
			return a.text(child)
		}
		if kind == "attribute" {
			var parts []string
			a.collectAttributeParts(child, &parts)
			return strings.Join(parts, ".")
		}
	}
	return ""
}

func (a *analyzer) collectAttributeParts(node *tree_sitter.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.GrammarName() == "identifier" {
		*parts = append(*parts, a.text(node))
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.GrammarName() != "." {
			a.collectAttributeParts(child, parts)
		}
	}
}

// buildRecord evaluates every argument of the installer call and folds the
// results into a MetadataRecord via fromArgs's hand-written keyword ->
// storage-slot mapping.
func (a *analyzer) buildRecord(call *tree_sitter.Node) *record.MetadataRecord {
	args := a.collectArgs(call)
	return fromArgs(args)
}

// collectArgs walks the installer call's argument_list, evaluating every
// keyword argument (and folding dict-valued double-starred arguments) into a
// name -> record.Value map, per §4.2 "Argument capture". Positional
// arguments are not supported; each one found is reported via an
// informational log rather than silently dropped.
func (a *analyzer) collectArgs(call *tree_sitter.Node) map[string]record.Value {
	out := make(map[string]record.Value)
	var argList *tree_sitter.Node
	for i := uint(0); i < call.ChildCount(); i++ {
		if call.Child(i).GrammarName() == "argument_list" {
			argList = call.Child(i)
			break
		}
	}
	if argList == nil {
		return out
	}
	line := call.StartPosition().Row + 1
	for i := uint(0); i < argList.ChildCount(); i++ {
		child := argList.Child(i)
		switch child.GrammarName() {
		case "keyword_argument":
			var keyNode, valueNode *tree_sitter.Node
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				switch {
				case sub.GrammarName() == "identifier" && keyNode == nil:
					keyNode = sub
				case sub.GrammarName() != "=" && valueNode == nil && keyNode != nil:
					valueNode = sub
				}
			}
			if keyNode != nil && valueNode != nil {
				v := a.evaluate(valueNode, 0, 0)
				if v.IsUnresolvable() {
					log.Printf("setuppy: %s could not be statically resolved at line %d", a.text(keyNode), line)
				}
				out[a.text(keyNode)] = v
			}
		case "dictionary_splat":
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.GrammarName() == "**" {
					continue
				}
				v := a.evaluate(sub, 0, 0)
				if d, ok := v.Dict(); ok {
					for k, vv := range d {
						out[k] = vv
					}
				}
			}
		case "(", ")", ",":
			// argument_list punctuation, not an argument.
		default:
			log.Printf("setuppy: ignoring unsupported positional argument to installer call at line %d", line)
		}
	}
	return out
}

// evaluate is the total function of §4.2: node, the line the reference
// occurs at (targetLine, used to cap recursive name lookups), and the
// current recursion depth. It never panics on malformed input and never
// executes code; unrecognized shapes fall through to Unresolvable.
func (a *analyzer) evaluate(node *tree_sitter.Node, targetLine uint, depth int) record.Value {
	if node == nil || depth > maxDepth {
		return record.Unresolvable
	}
	switch node.GrammarName() {
	case "string":
		return record.Literal(a.decodeString(node))
	case "integer":
		text := a.text(node)
		if v, err := strconv.ParseInt(text, 0, 64); err == nil {
			return record.Literal(v)
		}
		return record.Unresolvable
	case "float":
		text := a.text(node)
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return record.Literal(v)
		}
		return record.Unresolvable
	case "true":
		return record.Literal(true)
	case "false":
		return record.Literal(false)
	case "none":
		return record.Literal(nil)
	case "list", "tuple":
		return a.evaluateSequence(node, targetLine, depth)
	case "dictionary":
		return a.evaluateDict(node, targetLine, depth)
	case "identifier":
		return a.resolveName(a.text(node), targetLine, depth)
	case "subscript":
		return a.evaluateSubscript(node, targetLine, depth)
	case "binary_operator":
		return a.evaluateBinary(node, targetLine, depth)
	case "call":
		return a.evaluateCall(node, targetLine, depth)
	case "parenthesized_expression":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.GrammarName() != "(" && child.GrammarName() != ")" {
				return a.evaluate(child, targetLine, depth+1)
			}
		}
		return record.Unresolvable
	default:
		return record.Unresolvable
	}
}

func (a *analyzer) decodeString(node *tree_sitter.Node) string {
	text := a.text(node)
	if strings.HasPrefix(text, `"""`) && strings.HasSuffix(text, `"""`) && len(text) >= 6 {
		return text[3 : len(text)-3]
	}
	if strings.HasPrefix(text, `'''`) && strings.HasSuffix(text, `'''`) && len(text) >= 6 {
		return text[3 : len(text)-3]
	}
	if len(text) >= 2 {
		if (strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`)) ||
			(strings.HasPrefix(text, `'`) && strings.HasSuffix(text, `'`)) {
			return text[1 : len(text)-1]
		}
	}
	return text
}

func (a *analyzer) evaluateSequence(node *tree_sitter.Node, targetLine uint, depth int) record.Value {
	var out []record.Value
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.GrammarName()
		if kind == "[" || kind == "]" || kind == "(" || kind == ")" || kind == "," {
			continue
		}
		out = append(out, a.evaluate(child, targetLine, depth+1))
	}
	return record.Literal(out)
}

func (a *analyzer) evaluateDict(node *tree_sitter.Node, targetLine uint, depth int) record.Value {
	out := make(map[string]record.Value)
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.GrammarName() != "pair" {
			continue
		}
		var keyNode, valueNode *tree_sitter.Node
		for j := uint(0); j < child.ChildCount(); j++ {
			sub := child.Child(j)
			switch {
			case sub.GrammarName() != ":" && keyNode == nil:
				keyNode = sub
			case sub.GrammarName() != ":" && valueNode == nil && keyNode != nil:
				valueNode = sub
			}
		}
		if keyNode == nil || valueNode == nil {
			continue
		}
		keyVal := a.evaluate(keyNode, targetLine, depth+1)
		key, ok := keyVal.String()
		if !ok {
			continue // non-string keys aren't representable in the schema this feeds
		}
		out[key] = a.evaluate(valueNode, targetLine, depth+1)
	}
	return record.Literal(out)
}

func (a *analyzer) evaluateSubscript(node *tree_sitter.Node, targetLine uint, depth int) record.Value {
	var containerNode, indexNode *tree_sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		kind := child.GrammarName()
		if kind == "[" || kind == "]" {
			continue
		}
		if containerNode == nil {
			containerNode = child
		} else if indexNode == nil {
			indexNode = child
		}
	}
	if containerNode == nil || indexNode == nil {
		return record.Unresolvable
	}
	container := a.evaluate(containerNode, targetLine, depth+1)
	index := a.evaluate(indexNode, targetLine, depth+1)
	if container.IsUnresolvable() || index.IsUnresolvable() {
		return record.Unresolvable
	}
	if d, ok := container.Dict(); ok {
		if key, ok := index.String(); ok {
			if v, ok := d[key]; ok {
				return v
			}
		}
		return record.Unresolvable
	}
	if l, ok := container.List(); ok {
		if i, ok := index.Int(); ok && i >= 0 && int(i) < len(l) {
			return l[i]
		}
	}
	return record.Unresolvable
}

// evaluateBinary handles only `+`, the sole binary operator named in §4.2.
func (a *analyzer) evaluateBinary(node *tree_sitter.Node, targetLine uint, depth int) record.Value {
	var left, right *tree_sitter.Node
	var op string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch {
		case left == nil:
			left = child
		case op == "" && isPlus(child.GrammarName()):
			op = child.GrammarName()
		case right == nil:
			right = child
		}
	}
	if left == nil || right == nil || op != "+" {
		return record.Unresolvable
	}
	lv := a.evaluate(left, targetLine, depth+1)
	rv := a.evaluate(right, targetLine, depth+1)
	return addValues(lv, rv)
}

func isPlus(kind string) bool { return kind == "+" }

// addValues implements the infectious binary `+` (§4.2, Testable Property 3).
func addValues(l, r record.Value) record.Value {
	if l.IsUnresolvable() || r.IsUnresolvable() {
		return record.Unresolvable
	}
	if ls, ok := l.String(); ok {
		if rs, ok := r.String(); ok {
			return record.Literal(ls + rs)
		}
		return record.Unresolvable
	}
	if li, ok := l.Int(); ok {
		if ri, ok := r.Int(); ok {
			return record.Literal(li + ri)
		}
		return record.Unresolvable
	}
	if ll, ok := l.List(); ok {
		if rl, ok := r.List(); ok {
			out := make([]record.Value, 0, len(ll)+len(rl))
			out = append(out, ll...)
			out = append(out, rl...)
			return record.Literal(out)
		}
		return record.Unresolvable
	}
	return record.Unresolvable
}

// evaluateCall handles the two whitelisted calls of §4.2: `dict(...)` and
// the package-discovery helper. Any other call is Unresolvable.
func (a *analyzer) evaluateCall(node *tree_sitter.Node, targetLine uint, depth int) record.Value {
	name := a.qualifiedCallName(node)
	var argList *tree_sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).GrammarName() == "argument_list" {
			argList = node.Child(i)
			break
		}
	}
	switch {
	case name == "dict":
		return a.evaluateDictCall(argList, targetLine, depth)
	case discoveryNames[name] || strings.HasSuffix(name, ".find_packages") || strings.HasSuffix(name, ".find_namespace_packages"):
		return a.evaluateDiscoveryCall(argList, targetLine, depth)
	default:
		return record.Unresolvable
	}
}

func (a *analyzer) evaluateDictCall(argList *tree_sitter.Node, targetLine uint, depth int) record.Value {
	out := make(map[string]record.Value)
	if argList == nil {
		return record.Literal(out)
	}
	for i := uint(0); i < argList.ChildCount(); i++ {
		child := argList.Child(i)
		if child.GrammarName() != "keyword_argument" {
			continue
		}
		var keyNode, valueNode *tree_sitter.Node
		for j := uint(0); j < child.ChildCount(); j++ {
			sub := child.Child(j)
			switch {
			case sub.GrammarName() == "identifier" && keyNode == nil:
				keyNode = sub
			case sub.GrammarName() != "=" && valueNode == nil && keyNode != nil:
				valueNode = sub
			}
		}
		if keyNode != nil && valueNode != nil {
			out[a.text(keyNode)] = a.evaluate(valueNode, targetLine, depth+1)
		}
	}
	return record.Literal(out)
}

// evaluateDiscoveryCall builds the Discover(where, exclude, include) variant
// (§4.2): defaults `where="."`, `exclude=()`, `include=("*",)`, overlaid by
// positional then keyword arguments in declared order.
func (a *analyzer) evaluateDiscoveryCall(argList *tree_sitter.Node, targetLine uint, depth int) record.Value {
	where := "."
	var exclude, include []string
	haveInclude := false

	applyPositional := func(idx int, v record.Value) {
		switch idx {
		case 0:
			if s, ok := v.String(); ok {
				where = s
			}
		case 1:
			exclude = v.Strings()
		case 2:
			include = v.Strings()
			haveInclude = true
		}
	}
	applyKeyword := func(key string, v record.Value) {
		switch key {
		case "where":
			if s, ok := v.String(); ok {
				where = s
			}
		case "exclude":
			exclude = v.Strings()
		case "include":
			include = v.Strings()
			haveInclude = true
		}
	}

	if argList != nil {
		posIdx := 0
		for i := uint(0); i < argList.ChildCount(); i++ {
			child := argList.Child(i)
			switch child.GrammarName() {
			case "keyword_argument":
				var keyNode, valueNode *tree_sitter.Node
				for j := uint(0); j < child.ChildCount(); j++ {
					sub := child.Child(j)
					switch {
					case sub.GrammarName() == "identifier" && keyNode == nil:
						keyNode = sub
					case sub.GrammarName() != "=" && valueNode == nil && keyNode != nil:
						valueNode = sub
					}
				}
				if keyNode != nil && valueNode != nil {
					applyKeyword(a.text(keyNode), a.evaluate(valueNode, targetLine, depth+1))
				}
			case "(", ")", ",":
				// skip
			default:
				applyPositional(posIdx, a.evaluate(child, targetLine, depth+1))
				posIdx++
			}
		}
	}
	if !haveInclude {
		include = []string{"*"}
	}
	return record.Literal(record.Packages{
		Kind:    record.PackagesDiscover,
		Where:   where,
		Exclude: exclude,
		Include: include,
	})
}

// resolveName implements §4.2's bare-name resolution: gather every
// assignment to name, sort by descending source line, and walk top to
// bottom evaluating each right-hand side with target_line pinned to that
// assignment's own line — so a recursive lookup of name only ever considers
// strictly earlier assignments, which is what breaks `x = x + 1`-style
// cycles and makes last-write-wins well defined.
func (a *analyzer) resolveName(name string, targetLine uint, depth int) record.Value {
	switch name {
	case "True":
		return record.Literal(true)
	case "False":
		return record.Literal(false)
	case "None":
		return record.Literal(nil)
	}
	assigns := a.scope[name]
	if len(assigns) == 0 {
		return record.Unresolvable
	}
	// candidates strictly before targetLine (0 means "no constraint", used
	// at the top-level argument-capture entry point).
	var candidates []assignment
	for _, asg := range assigns {
		if targetLine == 0 || asg.line < targetLine {
			candidates = append(candidates, asg)
		}
	}
	if len(candidates) == 0 {
		return record.Unresolvable
	}
	sortDescending(candidates)

	for _, asg := range candidates {
		v := a.evaluateAssignmentRHS(name, asg, depth+1)
		if !v.IsUnresolvable() {
			return v
		}
	}
	return record.Unresolvable
}

func sortDescending(assigns []assignment) {
	for i := 1; i < len(assigns); i++ {
		for j := i; j > 0 && assigns[j].line > assigns[j-1].line; j-- {
			assigns[j], assigns[j-1] = assigns[j-1], assigns[j]
		}
	}
}

func (a *analyzer) evaluateAssignmentRHS(name string, asg assignment, depth int) record.Value {
	rhs := a.evaluate(asg.valueNode, asg.line, depth)
	if asg.augOp == "" {
		return rhs
	}
	// Augmented assignment: combine the prior value of name (resolved
	// strictly before this line) with the right-hand side.
	prior := a.resolveName(name, asg.line, depth)
	switch asg.augOp {
	case "+=":
		return addValues(prior, rhs)
	default:
		return record.Unresolvable
	}
}

func (a *analyzer) text(node *tree_sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(a.source)) {
		end = uint(len(a.source))
	}
	return string(a.source[start:end])
}
