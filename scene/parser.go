package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/frayproject/fray/bitmap"
	"github.com/frayproject/fray/geom"
	"github.com/frayproject/fray/lights"
	"github.com/frayproject/fray/log"
	"github.com/frayproject/fray/rnd"
	"github.com/frayproject/fray/shading"
	"github.com/frayproject/fray/types"
)

// A scene file syntax problem, with its source position.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// A referenced asset (texture, mesh, cubemap folder) that is not present
// relative to the scene file.
type FileNotFoundError struct {
	File string
	Line int
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s:%d: file not found: %s", e.File, e.Line, e.Path)
}

// One "name value..." line inside a block.
type blockLine struct {
	srcLine int
	head    string
	tail    string
	used    bool
}

// A parsed scene block: a class, an optional element name and the property
// lines between the braces. Property getters mark the lines they consume so
// leftovers can be reported as warnings.
type ParsedBlock struct {
	class      string
	name       string
	headerLine int
	lines      []blockLine

	parser *Parser
	err    error
}

// Record the first error hit while pulling properties.
func (pb *ParsedBlock) fail(line int, format string, args ...interface{}) {
	if pb.err == nil {
		pb.err = &SyntaxError{File: pb.parser.fileName, Line: line, Msg: fmt.Sprintf(format, args...)}
	}
}

func (pb *ParsedBlock) findProp(name string) *blockLine {
	for i := range pb.lines {
		if pb.lines[i].head == name {
			pb.lines[i].used = true
			return &pb.lines[i]
		}
	}
	return nil
}

// Signal that a property is mandatory for this block.
func (pb *ParsedBlock) RequiredProp(name string) {
	for i := range pb.lines {
		if pb.lines[i].head == name {
			return
		}
	}
	pb.fail(pb.headerLine, "missing required property `%s' in a %s block", name, pb.class)
}

func (pb *ParsedBlock) GetIntProp(name string, value *int) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	v, err := strconv.Atoi(strings.TrimSpace(line.tail))
	if err != nil {
		pb.fail(line.srcLine, "invalid integer for `%s': %s", name, line.tail)
		return false
	}
	*value = v
	return true
}

func (pb *ParsedBlock) GetDoubleProp(name string, value *float64) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line.tail), 64)
	if err != nil {
		pb.fail(line.srcLine, "invalid number for `%s': %s", name, line.tail)
		return false
	}
	*value = v
	return true
}

func (pb *ParsedBlock) GetFloatProp(name string, value *float32) bool {
	var v float64
	if !pb.GetDoubleProp(name, &v) {
		return false
	}
	*value = float32(v)
	return true
}

func (pb *ParsedBlock) GetBoolProp(name string, value *bool) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line.tail)) {
	case "on", "true", "yes", "1", "":
		*value = true
	case "off", "false", "no", "0":
		*value = false
	default:
		pb.fail(line.srcLine, "invalid boolean for `%s': %s", name, line.tail)
		return false
	}
	return true
}

// parse "(a, b, c)" or "a b c"
func parseTriple(s string) (x, y, z float64, ok bool) {
	clean := strings.NewReplacer("(", " ", ")", " ", ",", " ").Replace(s)
	fields := strings.Fields(clean)
	if len(fields) != 3 {
		return 0, 0, 0, false
	}
	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], true
}

func (pb *ParsedBlock) GetVectorProp(name string, value *types.Vec3) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	x, y, z, ok := parseTriple(line.tail)
	if !ok {
		pb.fail(line.srcLine, "invalid vector for `%s': %s", name, line.tail)
		return false
	}
	*value = types.XYZ(x, y, z)
	return true
}

func (pb *ParsedBlock) GetColorProp(name string, value *types.Color) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	x, y, z, ok := parseTriple(line.tail)
	if !ok {
		pb.fail(line.srcLine, "invalid color for `%s': %s", name, line.tail)
		return false
	}
	*value = types.RGB(float32(x), float32(y), float32(z))
	return true
}

func (pb *ParsedBlock) GetStringProp(name string, value *string) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	*value = strings.Trim(strings.TrimSpace(line.tail), `"`)
	return true
}

// Resolve a file (or folder) property against the scene file's directory.
func (pb *ParsedBlock) GetFilenameProp(name string, value *string) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	rel := strings.Trim(strings.TrimSpace(line.tail), `"`)
	full := filepath.Join(pb.parser.sceneDir, rel)
	if _, err := os.Stat(full); err != nil {
		if pb.err == nil {
			pb.err = &FileNotFoundError{File: pb.parser.fileName, Line: line.srcLine, Path: rel}
		}
		return false
	}
	*value = full
	return true
}

func (pb *ParsedBlock) GetGeometryProp(name string, value *geom.Geometry) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	ref := strings.TrimSpace(line.tail)
	g, exists := pb.parser.geometries[ref]
	if !exists {
		pb.fail(line.srcLine, "unresolvable geometry reference `%s'", ref)
		return false
	}
	*value = g
	return true
}

func (pb *ParsedBlock) GetShaderProp(name string, value *shading.Shader) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	ref := strings.TrimSpace(line.tail)
	sh, exists := pb.parser.shaders[ref]
	if !exists {
		pb.fail(line.srcLine, "unresolvable shader reference `%s'", ref)
		return false
	}
	*value = sh
	return true
}

func (pb *ParsedBlock) GetTextureProp(name string, value *shading.Texture) bool {
	line := pb.findProp(name)
	if line == nil {
		return false
	}
	ref := strings.TrimSpace(line.tail)
	tex, exists := pb.parser.textures[ref]
	if !exists {
		pb.fail(line.srcLine, "unresolvable texture reference `%s'", ref)
		return false
	}
	*value = tex
	return true
}

// Apply all scale/rotate/translate lines to the transform, in declaration
// order.
func (pb *ParsedBlock) GetTransformProp(t *types.Transform) {
	for i := range pb.lines {
		line := &pb.lines[i]
		switch line.head {
		case "scale", "rotate", "translate":
		default:
			continue
		}
		line.used = true
		x, y, z, ok := parseTriple(line.tail)
		if !ok {
			pb.fail(line.srcLine, "invalid triple for `%s': %s", line.head, line.tail)
			return
		}
		switch line.head {
		case "scale":
			t.Scale(x, y, z)
		case "rotate":
			t.Rotate(x, y, z)
		case "translate":
			t.Translate(types.XYZ(x, y, z))
		}
	}
}

var (
	randFloatRe = regexp.MustCompile(`randfloat\(\s*(-?[0-9.eE+-]+)\s*,\s*(-?[0-9.eE+-]+)\s*\)`)
	randIntRe   = regexp.MustCompile(`randint\(\s*(-?[0-9]+)\s*,\s*(-?[0-9]+)\s*\)`)
)

// The scene text parser. Blocks are collected first, then processed grouped
// by element category, so references to an element of an earlier category
// (node to shader, shader to texture) resolve regardless of the order in the
// file. Within one category blocks are processed in file order: a CSG operand
// or a layer shader must be declared before the block that names it.
type Parser struct {
	fileName string
	sceneDir string

	scene *Scene

	geometries map[string]geom.Geometry
	shaders    map[string]shading.Shader
	textures   map[string]shading.Texture

	// parse-time evaluator for randfloat/randint substitutions
	rand *rnd.Random

	logger log.Logger
}

// Parse a scene file into a fresh scene.
func Parse(fileName string) (*Scene, error) {
	p := &Parser{
		fileName:   filepath.Base(fileName),
		sceneDir:   filepath.Dir(fileName),
		scene:      New(),
		geometries: make(map[string]geom.Geometry),
		shaders:    make(map[string]shading.Shader),
		textures:   make(map[string]shading.Texture),
		rand:       rnd.New(42),
		logger:     log.New("parser"),
	}
	if err := p.parse(fileName); err != nil {
		return nil, err
	}
	return p.scene, nil
}

func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return line
}

// Evaluate randfloat(a, b) and randint(a, b) substitutions in a raw line.
func (p *Parser) substituteRandoms(line string) string {
	line = randFloatRe.ReplaceAllStringFunc(line, func(match string) string {
		sub := randFloatRe.FindStringSubmatch(match)
		a, err1 := strconv.ParseFloat(sub[1], 64)
		b, err2 := strconv.ParseFloat(sub[2], 64)
		if err1 != nil || err2 != nil {
			return match
		}
		return strconv.FormatFloat(a+(b-a)*p.rand.RandDouble(), 'f', 6, 64)
	})
	line = randIntRe.ReplaceAllStringFunc(line, func(match string) string {
		sub := randIntRe.FindStringSubmatch(match)
		a, err1 := strconv.Atoi(sub[1])
		b, err2 := strconv.Atoi(sub[2])
		if err1 != nil || err2 != nil {
			return match
		}
		return strconv.Itoa(p.rand.RandInt(a, b))
	})
	return line
}

// Element categories, in processing order.
var classCategories = map[string]int{
	"GlobalSettings":     0,
	"Camera":             1,
	"CubemapEnvironment": 2,
	"PointLight":         3,
	"RectLight":          3,
	"Plane":              4,
	"Sphere":             4,
	"Cube":               4,
	"CsgPlus":            4,
	"CsgAnd":             4,
	"CsgMinus":           4,
	"Mesh":               4,
	"CheckerTexture":     5,
	"BitmapTexture":      5,
	"BumpTexture":        5,
	"Fresnel":            5,
	"Lambert":            6,
	"Phong":              6,
	"Refl":               6,
	"Refr":               6,
	"Layered":            6,
	"Const":              6,
	"Node":               7,
}

const numCategories = 8

func (p *Parser) parse(fileName string) error {
	f, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("scene: %s", err)
	}
	defer f.Close()

	var blocks []*ParsedBlock
	var current *ParsedBlock
	inBlock := false
	sawHeader := false

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}
		line = p.substituteRandoms(line)

		if !inBlock {
			if sawHeader {
				// waiting for the opening brace of the previous header
				if line == "{" {
					inBlock = true
					continue
				}
				return &SyntaxError{File: p.fileName, Line: lineNum, Msg: "expected `{'"}
			}
			// a block header: Class [name] [{]
			openBrace := strings.HasSuffix(line, "{")
			header := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			tokens := strings.Fields(header)
			if len(tokens) == 0 || len(tokens) > 2 {
				return &SyntaxError{File: p.fileName, Line: lineNum, Msg: "expected a block header"}
			}
			if _, known := classCategories[tokens[0]]; !known {
				return &SyntaxError{File: p.fileName, Line: lineNum, Msg: fmt.Sprintf("unknown class `%s'", tokens[0])}
			}
			current = &ParsedBlock{class: tokens[0], headerLine: lineNum, parser: p}
			if len(tokens) == 2 {
				current.name = tokens[1]
			}
			sawHeader = true
			if openBrace {
				inBlock = true
			}
			continue
		}

		if line == "}" {
			blocks = append(blocks, current)
			current = nil
			inBlock = false
			sawHeader = false
			continue
		}

		head := line
		tail := ""
		if idx := strings.IndexAny(line, " \t"); idx >= 0 {
			head = line[:idx]
			tail = strings.TrimSpace(line[idx:])
		}
		current.lines = append(current.lines, blockLine{srcLine: lineNum, head: head, tail: tail})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scene: %s", err)
	}
	if inBlock || sawHeader {
		return &SyntaxError{File: p.fileName, Line: lineNum, Msg: "unterminated block"}
	}

	for category := 0; category < numCategories; category++ {
		for _, block := range blocks {
			if classCategories[block.class] != category {
				continue
			}
			if err := p.processBlock(block); err != nil {
				return err
			}
			for i := range block.lines {
				if !block.lines[i].used {
					p.logger.Warningf("%s:%d: unknown property `%s' in a %s block",
						p.fileName, block.lines[i].srcLine, block.lines[i].head, block.class)
				}
			}
		}
	}

	p.logger.Infof("%s: %d nodes, %d lights, %d geometries",
		p.fileName, len(p.scene.Nodes), len(p.scene.Lights), len(p.scene.Geometries))
	return nil
}

func (p *Parser) processBlock(pb *ParsedBlock) error {
	switch pb.class {
	case "GlobalSettings":
		p.fillSettings(pb)
	case "Camera":
		p.fillCamera(pb)
	case "CubemapEnvironment":
		p.fillEnvironment(pb)
	case "PointLight":
		p.fillPointLight(pb)
	case "RectLight":
		p.fillRectLight(pb)
	case "Plane", "Sphere", "Cube", "CsgPlus", "CsgAnd", "CsgMinus", "Mesh":
		p.fillGeometry(pb)
	case "CheckerTexture", "BitmapTexture", "BumpTexture", "Fresnel":
		p.fillTexture(pb)
	case "Lambert", "Phong", "Refl", "Refr", "Layered", "Const":
		p.fillShader(pb)
	case "Node":
		p.fillNode(pb)
	}
	return pb.err
}

func (p *Parser) fillSettings(pb *ParsedBlock) {
	s := &p.scene.Settings
	pb.GetIntProp("frameWidth", &s.FrameWidth)
	pb.GetIntProp("frameHeight", &s.FrameHeight)
	pb.GetColorProp("ambientLight", &s.AmbientLight)
	pb.GetBoolProp("wantAA", &s.WantAA)
	pb.GetBoolProp("wantPrepass", &s.WantPrepass)
	pb.GetBoolProp("gi", &s.GI)
	pb.GetIntProp("numPaths", &s.NumPaths)
	pb.GetIntProp("maxTraceDepth", &s.MaxTraceDepth)
	pb.GetFloatProp("saturation", &s.Saturation)
	pb.GetIntProp("numThreads", &s.NumThreads)
	pb.GetBoolProp("interactive", &s.Interactive)
	pb.GetBoolProp("fullscreen", &s.Fullscreen)
	if s.FrameWidth < 1 || s.FrameHeight < 1 {
		pb.fail(pb.headerLine, "invalid frame size %dx%d", s.FrameWidth, s.FrameHeight)
	}
}

func (p *Parser) fillCamera(pb *ParsedBlock) {
	c := p.scene.Camera
	if !pb.GetVectorProp("position", &c.Pos) {
		pb.GetVectorProp("pos", &c.Pos)
	}
	pb.GetDoubleProp("yaw", &c.Yaw)
	pb.GetDoubleProp("pitch", &c.Pitch)
	pb.GetDoubleProp("roll", &c.Roll)
	pb.GetDoubleProp("fov", &c.FOV)
	pb.GetDoubleProp("aspectRatio", &c.AspectRatio)
	pb.GetBoolProp("dof", &c.DOF)
	pb.GetDoubleProp("fNumber", &c.FNumber)
	pb.GetIntProp("numDOFSamples", &c.NumDOFSamples)
	pb.GetDoubleProp("focalPlaneDist", &c.FocalPlaneDist)
	pb.GetDoubleProp("stereoSeparation", &c.StereoSeparation)
	pb.GetColorProp("leftMask", &c.LeftMask)
	pb.GetColorProp("rightMask", &c.RightMask)
	if c.FOV <= 0 || c.FOV >= 180 {
		pb.fail(pb.headerLine, "fov out of range: %g", c.FOV)
	}
}

func (p *Parser) fillEnvironment(pb *ParsedBlock) {
	pb.RequiredProp("folder")
	var folder string
	if !pb.GetFilenameProp("folder", &folder) {
		return
	}
	env := &CubemapEnvironment{}
	if err := env.LoadMaps(folder); err != nil {
		pb.fail(pb.headerLine, "%s", err)
		return
	}
	p.scene.Environment = env
}

func (p *Parser) fillPointLight(pb *ParsedBlock) {
	l := &lights.PointLight{Color: types.RGB(1, 1, 1), Power: 1}
	pb.RequiredProp("pos")
	pb.GetVectorProp("pos", &l.Pos)
	pb.GetColorProp("color", &l.Color)
	pb.GetFloatProp("power", &l.Power)
	p.scene.Lights = append(p.scene.Lights, l)
}

func (p *Parser) fillRectLight(pb *ParsedBlock) {
	l := &lights.RectLight{
		T:     types.IdentTransform(),
		XSubd: 2,
		YSubd: 2,
		Color: types.RGB(1, 1, 1),
		Power: 1,
	}
	pb.GetIntProp("xSubd", &l.XSubd)
	pb.GetIntProp("ySubd", &l.YSubd)
	pb.GetColorProp("color", &l.Color)
	pb.GetFloatProp("power", &l.Power)
	pb.GetTransformProp(&l.T)
	if l.XSubd < 1 || l.YSubd < 1 {
		pb.fail(pb.headerLine, "light subdivisions must be positive")
	}
	p.scene.Lights = append(p.scene.Lights, l)
}

func (p *Parser) addGeometry(pb *ParsedBlock, g geom.Geometry) {
	p.scene.Geometries = append(p.scene.Geometries, g)
	if pb.name != "" {
		p.geometries[pb.name] = g
	}
}

func (p *Parser) fillGeometry(pb *ParsedBlock) {
	switch pb.class {
	case "Plane":
		g := &geom.Plane{Limit: 1e99}
		pb.GetDoubleProp("y", &g.Height)
		pb.GetDoubleProp("limit", &g.Limit)
		p.addGeometry(pb, g)
	case "Sphere":
		g := &geom.Sphere{R: 1}
		pb.GetVectorProp("center", &g.O)
		if !pb.GetDoubleProp("R", &g.R) {
			pb.GetDoubleProp("radius", &g.R)
		}
		p.addGeometry(pb, g)
	case "Cube":
		g := &geom.Cube{HalfSide: 0.5}
		pb.GetVectorProp("center", &g.O)
		var side float64
		if pb.GetDoubleProp("side", &side) {
			g.HalfSide = side / 2
		}
		pb.GetDoubleProp("halfSide", &g.HalfSide)
		p.addGeometry(pb, g)
	case "CsgPlus", "CsgAnd", "CsgMinus":
		var left, right geom.Geometry
		pb.RequiredProp("left")
		pb.RequiredProp("right")
		pb.GetGeometryProp("left", &left)
		pb.GetGeometryProp("right", &right)
		if left == nil || right == nil {
			return
		}
		var g geom.Geometry
		switch pb.class {
		case "CsgPlus":
			g = geom.NewCsgPlus(left, right)
		case "CsgAnd":
			g = geom.NewCsgAnd(left, right)
		case "CsgMinus":
			g = geom.NewCsgMinus(left, right)
		}
		p.addGeometry(pb, g)
	case "Mesh":
		g := geom.NewMesh()
		pb.RequiredProp("file")
		var file string
		if !pb.GetFilenameProp("file", &file) {
			return
		}
		if err := g.LoadFromOBJ(file); err != nil {
			pb.fail(pb.headerLine, "%s", err)
			return
		}
		pb.GetBoolProp("faceted", &g.Faceted)
		pb.GetBoolProp("backfaceCulling", &g.BackfaceCulling)
		pb.GetBoolProp("useKDTree", &g.UseKD)
		p.addGeometry(pb, g)
	}
}

func (p *Parser) addTexture(pb *ParsedBlock, t shading.Texture) {
	p.scene.Textures = append(p.scene.Textures, t)
	if pb.name != "" {
		p.textures[pb.name] = t
	}
}

func (p *Parser) fillTexture(pb *ParsedBlock) {
	switch pb.class {
	case "CheckerTexture":
		t := &shading.CheckerTexture{
			Color1:  types.RGB(0.7, 0.7, 0.7),
			Color2:  types.RGB(0.2, 0.2, 0.2),
			Scaling: 1,
		}
		pb.GetColorProp("color1", &t.Color1)
		pb.GetColorProp("color2", &t.Color2)
		pb.GetDoubleProp("scaling", &t.Scaling)
		p.addTexture(pb, t)
	case "BitmapTexture":
		pb.RequiredProp("file")
		var file string
		if !pb.GetFilenameProp("file", &file) {
			return
		}
		bmp, err := bitmap.Load(file)
		if err != nil {
			pb.fail(pb.headerLine, "%s", err)
			return
		}
		t := &shading.BitmapTexture{Bmp: bmp, Scaling: 1}
		pb.GetDoubleProp("scaling", &t.Scaling)
		p.addTexture(pb, t)
	case "BumpTexture":
		pb.RequiredProp("file")
		var file string
		if !pb.GetFilenameProp("file", &file) {
			return
		}
		bmp, err := bitmap.Load(file)
		if err != nil {
			pb.fail(pb.headerLine, "%s", err)
			return
		}
		t := &shading.BumpTexture{Bmp: bmp, Scaling: 1, Strength: 1}
		pb.GetDoubleProp("scaling", &t.Scaling)
		pb.GetDoubleProp("strength", &t.Strength)
		p.addTexture(pb, t)
	case "Fresnel":
		t := &shading.FresnelTexture{IOR: 1.33}
		pb.GetDoubleProp("ior", &t.IOR)
		if t.IOR <= 0 {
			pb.fail(pb.headerLine, "ior must be positive")
		}
		p.addTexture(pb, t)
	}
}

func (p *Parser) addShader(pb *ParsedBlock, s shading.Shader) {
	p.scene.Shaders = append(p.scene.Shaders, s)
	if pb.name != "" {
		p.shaders[pb.name] = s
	}
}

func (p *Parser) fillShader(pb *ParsedBlock) {
	switch pb.class {
	case "Lambert":
		s := &shading.Lambert{Color: types.RGB(1, 1, 1)}
		pb.GetColorProp("color", &s.Color)
		pb.GetTextureProp("texture", &s.DiffuseTex)
		p.addShader(pb, s)
	case "Phong":
		s := &shading.Phong{
			Color:              types.RGB(1, 1, 1),
			Exponent:           16,
			SpecularColor:      types.RGB(1, 1, 1),
			SpecularMultiplier: 1,
		}
		pb.GetColorProp("color", &s.Color)
		pb.GetTextureProp("texture", &s.DiffuseTex)
		pb.GetDoubleProp("exponent", &s.Exponent)
		pb.GetColorProp("specularColor", &s.SpecularColor)
		pb.GetFloatProp("specularMultiplier", &s.SpecularMultiplier)
		p.addShader(pb, s)
	case "Refl":
		s := shading.NewReflection(0.95)
		pb.GetFloatProp("multiplier", &s.Multiplier)
		pb.GetDoubleProp("glossiness", &s.Glossiness)
		pb.GetIntProp("numSamples", &s.NumSamples)
		if s.Glossiness < 0 || s.Glossiness > 1 {
			pb.fail(pb.headerLine, "glossiness must be in [0, 1]")
		}
		p.addShader(pb, s)
	case "Refr":
		s := &shading.Refraction{IOR: 1.33, Multiplier: 1}
		pb.GetDoubleProp("ior", &s.IOR)
		pb.GetFloatProp("multiplier", &s.Multiplier)
		if s.IOR <= 0 {
			pb.fail(pb.headerLine, "ior must be positive")
		}
		p.addShader(pb, s)
	case "Layered":
		s := &shading.Layered{}
		for i := range pb.lines {
			line := &pb.lines[i]
			if line.head != "layer" {
				continue
			}
			line.used = true
			p.parseLayer(pb, s, line)
		}
		p.addShader(pb, s)
	case "Const":
		s := &shading.ConstantShader{Color: types.RGB(0.5, 0.5, 0.5)}
		pb.GetColorProp("color", &s.Color)
		p.addShader(pb, s)
	}
}

// parse a `layer <shader>, (r, g, b)[, <texture>]' line
func (p *Parser) parseLayer(pb *ParsedBlock, s *shading.Layered, line *blockLine) {
	open := strings.Index(line.tail, "(")
	closing := strings.Index(line.tail, ")")
	if open < 0 || closing < open {
		pb.fail(line.srcLine, "expected a line like `layer <shader>, (r, g, b)[, <texture>]'")
		return
	}

	shaderName := strings.Trim(strings.TrimSpace(line.tail[:open]), ", ")
	r, g, b, ok := parseTriple(line.tail[open : closing+1])
	if !ok {
		pb.fail(line.srcLine, "invalid opacity color in a layer line")
		return
	}
	textureName := strings.Trim(strings.TrimSpace(line.tail[closing+1:]), ", ")

	shader, exists := p.shaders[shaderName]
	if !exists {
		pb.fail(line.srcLine, "unresolvable shader reference `%s'", shaderName)
		return
	}
	var texture shading.Texture
	if textureName != "" && textureName != "NULL" {
		tex, texExists := p.textures[textureName]
		if !texExists {
			pb.fail(line.srcLine, "unresolvable texture reference `%s'", textureName)
			return
		}
		texture = tex
	}
	s.AddLayer(shader, types.RGB(float32(r), float32(g), float32(b)), texture)
}

func (p *Parser) fillNode(pb *ParsedBlock) {
	n := &Node{Name: pb.name, T: types.IdentTransform()}
	pb.RequiredProp("geometry")
	pb.GetGeometryProp("geometry", &n.Geometry)

	var sh shading.Shader
	if pb.GetShaderProp("shader", &sh) {
		n.Shader = sh
	}

	var bumpTex shading.Texture
	if pb.GetTextureProp("bump", &bumpTex) {
		bump, ok := bumpTex.(*shading.BumpTexture)
		if !ok {
			pb.fail(pb.headerLine, "the `bump' property must reference a BumpTexture")
			return
		}
		n.Bump = bump
	}

	pb.GetTransformProp(&n.T)
	if n.Geometry == nil {
		return
	}

	if n.Shader != nil {
		p.scene.Nodes = append(p.scene.Nodes, n)
	} else {
		// a node without a shader is not rendered; it is kept as a super
		// node. CSG blocks do not reference nodes: their operands are
		// geometry blocks
		p.scene.SuperNodes = append(p.scene.SuperNodes, n)
	}
}
