package game

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Sprites maps asset names such as "apple" or "apple_half_1" to images.
// Missing entries are drawn as vector shapes.
type Sprites map[string]*ebiten.Image

// spriteNames lists every image the renderer looks for.
func spriteNames() []string {
	names := []string{"bomb", "explosion"}
	for k := Kind(0); k < fruitKinds; k++ {
		names = append(names, k.String(), halfSprite(k, 0), halfSprite(k, 1))
	}
	for _, splash := range []string{"red", "yellow", "orange", "transparent"} {
		names = append(names, "splash_"+splash)
	}
	return names
}

func halfSprite(k Kind, side int) string {
	return fmt.Sprintf("%s_half_%d", k, side+1)
}

// LoadSprites reads <name>.png for every known sprite in dir. Files that do
// not exist are skipped.
func LoadSprites(dir string) (Sprites, error) {
	sprites := Sprites{}
	if dir == "" {
		return sprites, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}

	for _, name := range spriteNames() {
		img, _, err := ebitenutil.NewImageFromFile(filepath.Join(dir, name+".png"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load sprite %s: %w", name, err)
		}
		sprites[name] = img
	}
	return sprites, nil
}
