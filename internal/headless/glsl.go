package headless

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"render-lessons/gpu"
)

// maxLocations is GL_MAX_VERTEX_ATTRIBS guaranteed by OpenGL 4.1.
const maxLocations = 16

// declaration is one global in/out/uniform of a shader stage.
type declaration struct {
	qualifier string
	typ       string
	name      string
	location  int32
	line      int
}

type shaderInterface struct {
	inputs   []declaration
	outputs  []declaration
	uniforms []declaration
}

var (
	versionRe = regexp.MustCompile(`^#version\s+\d+(\s+(core|es))?$`)
	leadRe    = regexp.MustCompile(`^\w+`)
	mainRe    = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	funcRe    = regexp.MustCompile(`^(?:(?:lowp|mediump|highp)\s+)?\w+\s+\w+\s*\([^()]*\)$`)
	blockRe   = regexp.MustCompile(`^\w+\s+\w+$`)
	declRe    = regexp.MustCompile(`^(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?` +
		`(?:(?:flat|smooth|noperspective|centroid)\s+)?` +
		`(in|out|uniform)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*\d+\s*\])?$`)
)

var glslTypes = map[string]bool{
	"float": true, "int": true, "uint": true, "bool": true,
	"vec2": true, "vec3": true, "vec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"sampler2D": true, "samplerCube": true, "sampler2DShadow": true,
}

// parseShader performs the structural checks a driver would reject first
// and collects the stage's global interface. Error text imitates a driver
// info log ("ERROR: 0:<line>: ...").
func parseShader(stage gpu.Stage, source string) (shaderInterface, error) {
	var iface shaderInterface

	src := stripComments(source)
	lines := strings.Split(src, "\n")

	first := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return iface, fmt.Errorf("ERROR: 0:0: empty %s shader source", stage)
	}
	if !versionRe.MatchString(strings.TrimSpace(lines[first])) {
		return iface, fmt.Errorf("ERROR: 0:%d: '' : #version required and missing", first+1)
	}

	// Blank out preprocessor lines, keeping line numbers stable.
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			lines[i] = ""
		}
	}
	src = strings.Join(lines, "\n")

	if !mainRe.MatchString(src) {
		return iface, fmt.Errorf("ERROR: 0:%d: '' : missing entry point 'void main()'", len(lines))
	}

	statements, err := globalStatements(src)
	if err != nil {
		return iface, err
	}

	for _, st := range statements {
		head := leadRe.FindString(st.text)
		switch head {
		case "in", "out", "uniform", "layout", "flat", "smooth", "noperspective", "centroid":
		default:
			continue
		}

		m := declRe.FindStringSubmatch(st.text)
		if m == nil {
			return iface, fmt.Errorf("ERROR: 0:%d: '%s' : syntax error", st.line, head)
		}
		if !glslTypes[m[3]] {
			return iface, fmt.Errorf("ERROR: 0:%d: '%s' : unknown type", st.line, m[3])
		}

		decl := declaration{qualifier: m[2], typ: m[3], name: m[4], location: -1, line: st.line}
		if m[1] != "" {
			loc, err := strconv.ParseInt(m[1], 10, 32)
			if err != nil || loc >= maxLocations {
				return iface, fmt.Errorf("ERROR: 0:%d: 'location' : value %s exceeds the %d available locations", st.line, m[1], maxLocations)
			}
			decl.location = int32(loc)
		}
		switch decl.qualifier {
		case "in":
			iface.inputs = append(iface.inputs, decl)
		case "out":
			iface.outputs = append(iface.outputs, decl)
		case "uniform":
			iface.uniforms = append(iface.uniforms, decl)
		}
	}

	if stage == gpu.FragmentStage && len(iface.outputs) == 0 {
		return iface, fmt.Errorf("ERROR: 0:%d: '' : fragment shader declares no output", len(lines))
	}
	return iface, nil
}

type statement struct {
	text string
	line int
}

// globalStatements returns the ';'-terminated statements outside any braces.
// Function headers and bodies are dropped. Unbalanced brackets, and text
// before a '{' that is neither a function nor a block header, are errors.
func globalStatements(src string) ([]statement, error) {
	var (
		out    []statement
		buf    strings.Builder
		depth  int
		parens int
		line   = 1
		start  = 1
	)
	for _, r := range src {
		switch r {
		case '\n':
			line++
		case '(':
			parens++
		case ')':
			parens--
			if parens < 0 {
				return nil, fmt.Errorf("ERROR: 0:%d: ')' : syntax error: unbalanced parenthesis", line)
			}
		case '{':
			if depth == 0 {
				header := strings.Join(strings.Fields(buf.String()), " ")
				if !funcRe.MatchString(header) && !blockRe.MatchString(header) {
					return nil, fmt.Errorf("ERROR: 0:%d: '{' : syntax error", line)
				}
				buf.Reset()
			}
			depth++
			continue
		case '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("ERROR: 0:%d: '}' : syntax error: unexpected closing brace", line)
			}
			if depth == 0 {
				buf.Reset()
			}
			continue
		}
		if depth > 0 {
			continue
		}
		if r == ';' {
			if text := strings.TrimSpace(buf.String()); text != "" {
				out = append(out, statement{text: strings.Join(strings.Fields(text), " "), line: start})
			}
			buf.Reset()
			continue
		}
		if buf.Len() == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r') {
			continue
		}
		if buf.Len() == 0 {
			start = line
		}
		buf.WriteRune(r)
	}

	switch {
	case depth != 0:
		return nil, fmt.Errorf("ERROR: 0:%d: '' : syntax error: unexpected end of file, missing '}'", line)
	case parens != 0:
		return nil, fmt.Errorf("ERROR: 0:%d: '' : syntax error: unexpected end of file, missing ')'", line)
	case strings.TrimSpace(buf.String()) != "":
		return nil, fmt.Errorf("ERROR: 0:%d: '' : syntax error: missing ';'", line)
	}
	return out, nil
}

func stripComments(src string) string {
	var b strings.Builder
	for i := 0; i < len(src); i++ {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				end = len(src) - i - 2
			}
			// Keep newlines so error lines still match the source.
			b.WriteString(strings.Repeat("\n", strings.Count(src[i:i+2+end], "\n")))
			i += end + 3
		default:
			b.WriteByte(src[i])
		}
	}
	return b.String()
}

// link matches the vertex outputs against the fragment inputs and checks
// that uniforms shared by both stages agree on their type.
func link(vs, fs shaderInterface) error {
	outputs := make(map[string]string, len(vs.outputs))
	for _, decl := range vs.outputs {
		outputs[decl.name] = decl.typ
	}
	for _, decl := range fs.inputs {
		typ, ok := outputs[decl.name]
		if !ok {
			return fmt.Errorf("link error: fragment input '%s' is not written by the vertex shader", decl.name)
		}
		if typ != decl.typ {
			return fmt.Errorf("link error: type mismatch for varying '%s' (%s vs %s)", decl.name, typ, decl.typ)
		}
	}

	uniforms := make(map[string]string, len(vs.uniforms))
	for _, decl := range vs.uniforms {
		uniforms[decl.name] = decl.typ
	}
	for _, decl := range fs.uniforms {
		if typ, ok := uniforms[decl.name]; ok && typ != decl.typ {
			return fmt.Errorf("link error: uniform '%s' declared as %s and %s", decl.name, typ, decl.typ)
		}
	}
	return nil
}
