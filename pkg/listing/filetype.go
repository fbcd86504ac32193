package listing

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// FileType is a coarse classification used to label files.
type FileType string

const (
	TypeFolder FileType = "folder"
	TypeScript FileType = "script"
	TypeText   FileType = "text"
	TypeImage  FileType = "image"
	TypeModel  FileType = "3d"
	TypeFont   FileType = "font"
	TypeBlend  FileType = "blend"
	TypeOther  FileType = "file"
)

var extensionTypes = map[string]FileType{
	".py": TypeScript, ".pyw": TypeScript, ".osl": TypeScript, ".glsl": TypeScript,
	".txt": TypeText, ".md": TypeText, ".rst": TypeText, ".json": TypeText,
	".toml": TypeText, ".yaml": TypeText, ".yml": TypeText, ".xml": TypeText,
	".cfg": TypeText, ".ini": TypeText, ".csv": TypeText,
	".png": TypeImage, ".jpg": TypeImage, ".jpeg": TypeImage, ".tga": TypeImage,
	".tif": TypeImage, ".tiff": TypeImage, ".exr": TypeImage, ".hdr": TypeImage,
	".bmp": TypeImage, ".webp": TypeImage, ".svg": TypeImage,
	".obj": TypeModel, ".fbx": TypeModel, ".gltf": TypeModel, ".glb": TypeModel,
	".stl": TypeModel, ".ply": TypeModel, ".abc": TypeModel, ".usd": TypeModel,
	".usda": TypeModel, ".usdc": TypeModel, ".usdz": TypeModel, ".dae": TypeModel,
	".ttf": TypeFont, ".otf": TypeFont, ".woff": TypeFont, ".woff2": TypeFont,
	".blend": TypeBlend, ".blend1": TypeBlend,
}

// TypeOf classifies an entry by kind and extension.
func TypeOf(e types.Entry) FileType {
	if e.IsDir() {
		return TypeFolder
	}
	return TypeOfName(e.Name)
}

// TypeOfName classifies a file name by extension.
func TypeOfName(name string) FileType {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return TypeOther
}
