package main

import (
	"os"

	"github.com/achilleasa/bvhtrace/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bvhtrace"
	app.Usage = "build a BVH over a triangle mesh and ray trace a fixed view of it"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "trace",
			Usage:     "render a scene file",
			ArgsUsage: "scene_file.obj",
			Description: `
Parse a triangle mesh from a wavefront obj file, build a BVH over it using
the selected builder, ray trace a fixed pinhole camera view of it and save
the result as a binary PPM image.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "builder",
					Value: "sah",
					Usage: `BVH builder to use: "sah" or "ploc"`,
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "out.ppm",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderScene,
		},
	}

	app.Run(os.Args)
}
