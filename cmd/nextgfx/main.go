package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/nextgfx"
	"github.com/bodgit/nextgfx/layer2"
	"github.com/bodgit/nextgfx/preview"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

type converter struct {
	*nextgfx.Converter
	db *nextgfx.AssetDB
}

func (c *converter) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// unset marks an index flag that was not given.
const unset = -1

func index(c *cli.Context, name string) (uint8, bool, error) {
	v := c.Int(name)
	switch {
	case v == unset:
		return 0, false, nil
	case v < 0 || v > 255:
		return 0, false, fmt.Errorf("--%s %d is not a palette index", name, v)
	}
	return uint8(v), true, nil
}

// loadConfig reads the configuration file, if any, and applies the flag
// and environment overrides on top.
func loadConfig(c *cli.Context) (nextgfx.Config, error) {
	config := nextgfx.DefaultConfig()
	if file := c.String("config"); file != "" {
		var err error
		if config, err = nextgfx.LoadConfig(file); err != nil {
			return nextgfx.Config{}, err
		}
	}

	if v, ok, err := index(c, "transparent"); err != nil {
		return nextgfx.Config{}, err
	} else if ok {
		config.Transparent = v
	}
	if v, ok, err := index(c, "alternative"); err != nil {
		return nextgfx.Config{}, err
	} else if ok {
		config.Alternative = v
	}
	if reference := c.String("reference"); reference != "" {
		config.Reference = reference
	}

	return config, config.Validate()
}

func newConverter(c *cli.Context) (*converter, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	config, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	var db *nextgfx.AssetDB
	if file := c.String("db"); file != "" {
		var err error
		if db, err = nextgfx.NewAssetDB(file); err != nil {
			return nil, err
		}
	}

	conv, err := nextgfx.New(config, db, logger)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}
	if c.Bool("verbose") {
		conv.SetProgress(os.Stderr)
	}

	return &converter{conv, db}, nil
}

// action wraps fn with the argument check and converter setup every command
// shares.
func action(args int, fn func(*cli.Context, *converter) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < args {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		conv, err := newConverter(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer conv.Close()

		if err := fn(c, conv); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "output file, " + nextgfx.FramePlaceholder + " is replaced by the frame number",
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"NEXTGFX_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"NEXTGFX_DB"},
			Usage:   "path to asset database",
		},
		&cli.IntFlag{
			Name:    "transparent",
			EnvVars: []string{"NEXTGFX_TRANSPARENT"},
			Value:   unset,
			Usage:   "palette index of transparent pixels",
		},
		&cli.IntFlag{
			Name:    "alternative",
			EnvVars: []string{"NEXTGFX_ALTERNATIVE"},
			Value:   unset,
			Usage:   "palette index for opaque colors matching the transparent index",
		},
		&cli.StringFlag{
			Name:    "reference",
			EnvVars: []string{"NEXTGFX_REFERENCE"},
			Usage:   "sprite reference point, a name such as bottom-center or x,y",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "nextgfx"
	app.Usage = "Aseprite to ZX Spectrum Next graphics converter"
	app.Version = "1.0.0"

	app.Flags = globalFlags()

	app.Commands = []*cli.Command{
		{
			Name:      "export-layer-bitmap",
			Usage:     "Export each frame as a layer 2 bitmap",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.BoolFlag{
					Name:  "row-major",
					Usage: "write pixels row by row instead of column by column",
				},
			},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				return conv.ExportLayerBitmaps(c.Args().First(), c.String("output"), layer2.OrderFor(!c.Bool("row-major")))
			}),
		},
		{
			Name:      "report-frame-count",
			Usage:     "Print the number of frames",
			ArgsUsage: "FILE|DIRECTORY...",
			Action: action(1, func(c *cli.Context, conv *converter) error {
				sources, err := conv.Sources(c.Args().Slice()...)
				if err != nil {
					return err
				}
				for _, source := range sources {
					n, err := conv.FrameCount(source)
					if err != nil {
						return err
					}
					if len(sources) > 1 {
						fmt.Printf("%s\t%d\n", source, n)
					} else {
						fmt.Println(n)
					}
				}
				return nil
			}),
		},
		{
			Name:      "export-sprite-attributes",
			Usage:     "Export sprite patterns and attributes",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{outputFlag},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				return conv.ExportSpriteAttributes(c.Args().First(), c.String("output"))
			}),
		},
		{
			Name:      "export-tile-definitions",
			Usage:     "Export the tile definitions of every tiled layer",
			ArgsUsage: "FILE|DIRECTORY...",
			Flags:     []cli.Flag{outputFlag},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				sources, err := conv.Sources(c.Args().Slice()...)
				if err != nil {
					return err
				}
				return conv.ExportTileDefinitions(sources, c.String("output"))
			}),
		},
		{
			Name:      "export-bitmap",
			Usage:     "Export every frame as one bitmap",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.BoolFlag{
					Name:  "columns",
					Usage: "write pixels column by column",
				},
			},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				return conv.ExportBitmap(c.Args().First(), c.String("output"), layer2.OrderFor(c.Bool("columns")))
			}),
		},
		{
			Name:      "export-tilemap",
			Usage:     "Export the tilemap of each frame",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.IntFlag{
					Name:  "width",
					Usage: "tilemap width in tiles, defaults to the content width",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "tilemap height in tiles, defaults to the content height",
				},
				&cli.BoolFlag{
					Name:  "wide",
					Usage: "write 16-bit entries",
				},
			},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				return conv.ExportTilemap(c.Args().First(), c.String("output"), c.Int("width"), c.Int("height"), c.Bool("wide"))
			}),
		},
		{
			Name:      "export-palette",
			Usage:     "Export the palettes of one or more files",
			ArgsUsage: "FILE|DIRECTORY...",
			Flags:     []cli.Flag{outputFlag},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				sources, err := conv.Sources(c.Args().Slice()...)
				if err != nil {
					return err
				}
				return conv.ExportPalette(sources, c.String("output"))
			}),
		},
		{
			Name:      "export-balloon",
			Usage:     "Export the balloon overlay window",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{outputFlag},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				return conv.ExportBalloon(c.Args().First(), c.String("output"))
			}),
		},
		{
			Name:      "export-preview",
			Usage:     "Export frames as PNG images",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.IntFlag{
					Name:  "frame",
					Value: -1,
					Usage: "frame to export, all frames if negative",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "scale factor",
				},
				&cli.IntFlag{
					Name:  "colors",
					Value: 256,
					Usage: "maximum number of colors",
				},
				&cli.BoolFlag{
					Name:  "hardware",
					Usage: "show colors as the hardware displays them",
				},
			},
			Action: action(1, func(c *cli.Context, conv *converter) error {
				opts := preview.Options{
					Scale:  c.Int("scale"),
					Colors: c.Int("colors"),
				}
				return conv.ExportPreview(c.Args().First(), c.String("output"), c.Int("frame"), c.Bool("hardware"), opts)
			}),
		},
		{
			Name:  "list-assets",
			Usage: "List every exported asset recorded in the database",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "sources",
					Usage: "list the exported inputs instead",
				},
			},
			Action: action(0, func(c *cli.Context, conv *converter) error {
				if c.Bool("sources") {
					return conv.ListSources(os.Stdout)
				}
				return conv.ListAssets(os.Stdout)
			}),
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
