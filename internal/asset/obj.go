package asset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

func loadOBJ(path, name string) (*scene.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	root, err := parseOBJ(f, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return root, nil
}

// parseOBJ reads "v" records into geometry. Vertices before the first "o" or
// "g" statement go to a default child; every later statement starts a new
// child. Faces, normals and texture coordinates are skipped.
func parseOBJ(r io.Reader, name string) (*scene.Node, error) {
	root := scene.NewNode(name)

	groupName := "default"
	var positions []scene.Vec3
	flush := func() {
		if len(positions) == 0 {
			return
		}
		root.Add(scene.NewMeshNode(groupName, scene.NewGeometry("obj", positions), &scene.Material{Color: "#ffffff"}))
		positions = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o", "g":
			flush()
			groupName = strings.Join(fields[1:], " ")
			if groupName == "" {
				groupName = fields[0]
			}
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates, got %d", line, len(fields)-1)
			}
			var p [3]float64
			for i := range p {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				p[i] = v
			}
			positions = append(positions, scene.Vec3{X: p[0], Y: p[1], Z: p[2]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return root, nil
}
