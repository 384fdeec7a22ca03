package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "output raw JSON"}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the server is up",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			var out map[string]any
			if err := doHealth(ctx, cfg, &out); err != nil {
				return err
			}
			fmt.Printf("%v\n", out["status"])
			return nil
		},
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authentication commands",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Login and store the access token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "transport", Value: "http", Usage: "http or uds"},
					&cli.StringFlag{Name: "server", Value: defaultServer},
					&cli.StringFlag{Name: "socket", Value: defaultSocket},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := cliConfig{Transport: c.String("transport"), Server: c.String("server"), Socket: c.String("socket")}
					var out application.Token
					if err := doLogin(ctx, cfg, c.String("email"), c.String("password"), &out); err != nil {
						return err
					}
					cfg.Token = out.AccessToken
					if err := saveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("logged in as %s\n", strings.ToLower(c.String("email")))
					return nil
				},
			},
			{
				Name:  "register",
				Usage: "Create an account on the server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "server", Value: defaultServer},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "full-name", Required: true},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg := cliConfig{Server: c.String("server")}
					var out domain.User
					if err := doRegister(ctx, cfg, c.String("email"), c.String("password"), c.String("full-name"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printUser(out)
					return nil
				},
			},
			{
				Name:  "whoami",
				Usage: "Show the current user",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.User
					if err := doWhoAmI(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printUser(out)
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "Forget the stored token",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					cfg.Token = ""
					return saveConfig(cfg)
				},
			},
		},
	}
}

func landmarksCommand() *cli.Command {
	return &cli.Command{
		Name:  "landmarks",
		Usage: "Browse landmarks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List landmarks",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "city"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "search"},
					&cli.IntFlag{Name: "skip"},
					&cli.IntFlag{Name: "limit"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Page[domain.Landmark]
					err = doLandmarksList(ctx, cfg, landmarkQuery{
						City:     c.String("city"),
						Category: c.String("category"),
						Search:   c.String("search"),
						Skip:     int(c.Int("skip")),
						Limit:    int(c.Int("limit")),
					}, &out)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printLandmarks(out.Items)
					fmt.Printf("page %d of %d, %d total\n", out.Page, out.Pages, out.Total)
					return nil
				},
			},
			{
				Name:  "nearby",
				Usage: "List landmarks around a point",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "lat", Required: true},
					&cli.FloatFlag{Name: "lon", Required: true},
					&cli.FloatFlag{Name: "radius", Usage: "km, 1..100"},
					&cli.IntFlag{Name: "limit"},
					jsonFlag(),
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out []domain.NearbyLandmark
					if err := doLandmarksNearby(ctx, cfg, c.Float("lat"), c.Float("lon"), c.Float("radius"), int(c.Int("limit")), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printNearby(out)
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "Show one landmark",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := strconv.ParseUint(c.Args().First(), 10, 64)
					if err != nil || id == 0 {
						return fmt.Errorf("landmark id is required")
					}
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.Landmark
					if err := doLandmarkGet(ctx, cfg, uint(id), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printLandmark(out)
					return nil
				},
			},
		},
	}
}

func cityClientCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "popular",
			Usage: "List cities with the most landmarks",
			Flags: []cli.Flag{&cli.IntFlag{Name: "limit"}, jsonFlag()},
			Action: func(ctx context.Context, c *cli.Command) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				var out []domain.PopularCity
				if err := doPopularCities(ctx, cfg, int(c.Int("limit")), &out); err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(out)
				}
				printPopularCities(out)
				return nil
			},
		},
		{
			Name:      "profile",
			Usage:     "Show the cached profile of a city",
			ArgsUsage: "<city>",
			Flags:     []cli.Flag{jsonFlag()},
			Action: func(ctx context.Context, c *cli.Command) error {
				city := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
				if city == "" {
					return fmt.Errorf("city name is required")
				}
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				var out domain.CityProfileView
				if err := doCityProfile(ctx, cfg, city, &out); err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(out)
				}
				printCityProfile(out)
				return nil
			},
		},
	}
}

func notificationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "notifications",
		Usage: "Read and acknowledge notifications",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List notifications",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "unread", Usage: "only unread"}, jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out application.NotificationList
					if err := doNotificationsList(ctx, cfg, c.Bool("unread"), &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printNotifications(out)
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "Show notification counters",
				Flags: []cli.Flag{jsonFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out domain.NotificationStats
					if err := doNotificationsStats(ctx, cfg, &out); err != nil {
						return err
					}
					if c.Bool("json") {
						return printJSON(out)
					}
					printKV([][2]string{
						{"total", strconv.FormatInt(out.Total, 10)},
						{"unread", strconv.FormatInt(out.Unread, 10)},
						{"read", strconv.FormatInt(out.Read, 10)},
						{"archived", strconv.FormatInt(out.Archived, 10)},
					})
					return nil
				},
			},
			{
				Name:  "read",
				Usage: "Mark notifications as read",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ids", Usage: "comma separated notification ids"},
					&cli.BoolFlag{Name: "all", Usage: "mark every unread notification"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					ids, err := parseIDs(c.String("ids"))
					if err != nil {
						return err
					}
					cfg, err := loadConfig()
					if err != nil {
						return err
					}
					var out struct {
						UpdatedCount int64 `json:"updated_count"`
					}
					if err := doNotificationsMarkRead(ctx, cfg, ids, c.Bool("all"), &out); err != nil {
						return err
					}
					fmt.Printf("marked %d as read\n", out.UpdatedCount)
					return nil
				},
			},
		},
	}
}

func parseIDs(input string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(input, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		id, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", trimmed)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
