package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/client"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// needArgs checks the positional argument count. Flag parsing stops at the
// first positional argument, so flags given after it land here.
func needArgs(c *cli.Context, names ...string) error {
	for _, arg := range c.Args().Slice() {
		if strings.HasPrefix(arg, "-") {
			return fmt.Errorf("flag %s must come before %s: clubctl %s [flags] %s",
				arg, strings.ToUpper(names[0]), c.Command.Name, strings.ToUpper(strings.Join(names, " ")))
		}
	}
	if c.NArg() != len(names) {
		return fmt.Errorf("usage: clubctl %s %s", c.Command.Name, strings.ToUpper(strings.Join(names, " ")))
	}
	return nil
}

func readPassword(c *cli.Context) (string, error) {
	if p := c.String("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(c.App.ErrWriter, "Password: ")
	line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and keep the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"CLUBCTL_PASSWORD"}, Usage: "read from stdin when empty"},
		},
		Action: func(c *cli.Context) error {
			e := newEnv(c)
			password, err := readPassword(c)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(c)
			defer cancel()

			a, err := e.client.Login(ctx, c.String("email"), password)
			if err != nil {
				return err
			}
			if err := e.session.Save(a); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Logged in as %s (%s)\n", a.User.Email, a.User.Role)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the saved session",
		Action: func(c *cli.Context) error {
			return newEnv(c).session.Clear()
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, EnvVars: []string{"CLUBCTL_PASSWORD"}, Usage: "read from stdin when empty"},
		},
		Action: func(c *cli.Context) error {
			e := newEnv(c)
			password, err := readPassword(c)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(c)
			defer cancel()

			user, err := e.client.Register(ctx, c.String("name"), c.String("email"), password)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, user)
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the logged in user",
		Action: func(c *cli.Context) error {
			e := newEnv(c)
			a, err := e.auth(true)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(c)
			defer cancel()

			me, err := e.client.Me(ctx, a)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, me)
		},
	}
}

func kindsCommand() *cli.Command {
	return &cli.Command{
		Name:  "kinds",
		Usage: "list entity kinds and their form fields",
		Action: func(c *cli.Context) error {
			reg := newEnv(c).registry
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tFIELD\tTYPE\tREQUIRED")
			for _, kind := range reg.Kinds() {
				entry, err := reg.Lookup(kind)
				if err != nil {
					return err
				}
				for _, f := range entry.Schema.Fields {
					typ := string(f.Type)
					if len(f.Options) > 0 {
						typ += "(" + strings.Join(f.Options, "|") + ")"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", kind, f.Name, typ, f.Required)
				}
				if entry.Schema.FileField != "" {
					fmt.Fprintf(w, "%s\t%s\tfile\tfalse\n", kind, entry.Schema.FileField)
				}
			}
			return w.Flush()
		},
	}
}

// lookup resolves the KIND argument
func (e *env) lookup(c *cli.Context) (client.Entry, error) {
	return e.registry.Lookup(client.Kind(c.Args().First()))
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list a kind",
		ArgsUsage: "[--when upcoming|past] KIND",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "when", Usage: "events only: upcoming or past"},
		},
		Action: func(c *cli.Context) error {
			if err := needArgs(c, "kind"); err != nil {
				return err
			}
			e := newEnv(c)
			entry, err := e.lookup(c)
			if err != nil {
				return err
			}
			a, err := e.auth(entry.AdminList)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(c)
			defer cancel()

			if when := c.String("when"); when != "" {
				if entry.Kind != client.KindEvents {
					return fmt.Errorf("--when only applies to events")
				}
				events, err := e.client.EventsByPeriod(ctx, models.EventPeriod(when))
				if err != nil {
					return err
				}
				return printJSON(c.App.Writer, events)
			}

			items, err := entry.Fetch(ctx, a)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, items)
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "show one item",
		ArgsUsage: "KIND ID",
		Action: func(c *cli.Context) error {
			if err := needArgs(c, "kind", "id"); err != nil {
				return err
			}
			e := newEnv(c)
			entry, err := e.lookup(c)
			if err != nil {
				return err
			}
			a, err := e.auth(entry.AdminList)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(c)
			defer cancel()

			item, err := entry.Get(ctx, a, c.Args().Get(1))
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, item)
		},
	}
}

func writeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "set", Usage: "field value as key=value, repeatable"},
		&cli.PathFlag{Name: "file", Aliases: []string{"f"}, Usage: "file to upload"},
	}
}

// payload builds the request body from --set and --file. The returned
// closer releases the opened file.
func payload(c *cli.Context, schema client.FormSchema, create bool) (*client.Payload, func(), error) {
	values, err := parseSets(c.StringSlice("set"))
	if err != nil {
		return nil, nil, err
	}

	var file *client.FileUpload
	release := func() {}
	if path := c.Path("file"); path != "" {
		upload, closer, err := client.OpenFile(schema.FileField, path)
		if err != nil {
			return nil, nil, err
		}
		file = upload
		release = func() { closer.Close() }
	}

	p, err := schema.Payload(values, file, create)
	if err != nil {
		release()
		return nil, nil, err
	}
	return p, release, nil
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create an item",
		ArgsUsage: "[--set key=value]... [--file PATH] KIND",
		Flags:     writeFlags(),
		Action: func(c *cli.Context) error {
			if err := needArgs(c, "kind"); err != nil {
				return err
			}
			e := newEnv(c)
			entry, err := e.lookup(c)
			if err != nil {
				return err
			}
			// messages and users are created through public endpoints
			a, err := e.auth(entry.Kind != client.KindMessages && entry.Kind != client.KindUsers)
			if err != nil {
				return err
			}
			p, release, err := payload(c, entry.Schema, true)
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := commandContext(c)
			defer cancel()
			item, err := entry.Create(ctx, a, p)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, item)
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "change fields of an item",
		ArgsUsage: "[--set key=value]... [--file PATH] KIND ID",
		Flags:     writeFlags(),
		Action: func(c *cli.Context) error {
			if err := needArgs(c, "kind", "id"); err != nil {
				return err
			}
			e := newEnv(c)
			entry, err := e.lookup(c)
			if err != nil {
				return err
			}
			a, err := e.auth(true)
			if err != nil {
				return err
			}
			p, release, err := payload(c, entry.Schema, false)
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := commandContext(c)
			defer cancel()
			item, err := entry.Update(ctx, a, c.Args().Get(1), p)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, item)
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete an item",
		ArgsUsage: "KIND ID",
		Action: func(c *cli.Context) error {
			if err := needArgs(c, "kind", "id"); err != nil {
				return err
			}
			e := newEnv(c)
			entry, err := e.lookup(c)
			if err != nil {
				return err
			}
			a, err := e.auth(true)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(c)
			defer cancel()

			id := c.Args().Get(1)
			if err := entry.Delete(ctx, a, id); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Deleted %s %s\n", entry.Kind, id)
			return nil
		},
	}
}

func likeCommand() *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "toggle your like on a post",
		ArgsUsage: "POST_ID",
		Action: func(c *cli.Context) error {
			if err := needArgs(c, "post_id"); err != nil {
				return err
			}
			e := newEnv(c)
			a, err := e.auth(true)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(c)
			defer cancel()

			post, err := e.client.LikePost(ctx, a, c.Args().First())
			if err != nil {
				return err
			}
			verb := "Unliked"
			if a.User != nil && post.LikedByUser(a.User.ID) {
				verb = "Liked"
			}
			fmt.Fprintf(c.App.Writer, "%s %q, %d likes\n", verb, post.Title, post.Likes)
			return nil
		},
	}
}

func contactCommand() *cli.Command {
	return &cli.Command{
		Name:  "contact",
		Usage: "send a message through the contact form",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			e := newEnv(c)
			ctx, cancel := commandContext(c)
			defer cancel()

			msg, err := e.client.SubmitContact(ctx, c.String("name"), c.String("email"), c.String("message"))
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, msg)
		},
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "administer accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list accounts",
				Action: func(c *cli.Context) error {
					e := newEnv(c)
					a, err := e.auth(true)
					if err != nil {
						return err
					}
					ctx, cancel := commandContext(c)
					defer cancel()

					users, err := e.client.Users(ctx, a)
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE")
					for _, u := range users {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role)
					}
					return w.Flush()
				},
			},
			{
				Name:      "role",
				Usage:     "change a user's role",
				ArgsUsage: "ID ROLE",
				Action: func(c *cli.Context) error {
					if err := needArgs(c, "id", "role"); err != nil {
						return err
					}
					e := newEnv(c)
					a, err := e.auth(true)
					if err != nil {
						return err
					}
					ctx, cancel := commandContext(c)
					defer cancel()

					user, err := e.client.SetRole(ctx, a, c.Args().Get(0), models.RoleType(c.Args().Get(1)))
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, user)
				},
			},
			{
				Name:      "delete",
				Usage:     "delete an account",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					if err := needArgs(c, "id"); err != nil {
						return err
					}
					e := newEnv(c)
					a, err := e.auth(true)
					if err != nil {
						return err
					}
					ctx, cancel := commandContext(c)
					defer cancel()

					if err := e.client.DeleteUser(ctx, a, c.Args().First()); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Deleted user %s\n", c.Args().First())
					return nil
				},
			},
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check the server and its database",
		Action: func(c *cli.Context) error {
			ctx, cancel := commandContext(c)
			defer cancel()

			health, err := newEnv(c).client.Health(ctx)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, health)
		},
	}
}
