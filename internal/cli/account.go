package cli

type RegisterCmd struct {
	Name     string `arg:"" help:"Account name."`
	Password string `required:"" env:"CEOOS_PASSWORD" help:"Account password."`
}

func (r *RegisterCmd) Run(c *Context) error {
	if err := c.requireRemote(); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	uid, err := c.Auth.Register(ctx, r.Name, r.Password)
	if err != nil {
		return err
	}
	c.printf("Registered %s (%s)\n", r.Name, uid)
	return nil
}

type LoginCmd struct {
	Name     string `arg:"" help:"Account name."`
	Password string `required:"" env:"CEOOS_PASSWORD" help:"Account password."`
}

// Run stores the issued token in the keyring and signs the session in,
// which fetches the journal of the new user.
func (l *LoginCmd) Run(c *Context) error {
	if err := c.requireRemote(); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	user, err := c.Auth.Login(ctx, l.Name, l.Password)
	if err != nil {
		return err
	}
	if err := c.Sessions.Save(user); err != nil {
		return err
	}
	c.Session.SignIn(ctx, user)
	c.printf("Signed in as %s\n", user.Name)
	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(c *Context) error {
	if err := c.requireRemote(); err != nil {
		return err
	}
	if err := c.Sessions.Delete(); err != nil {
		return err
	}
	ctx, cancel := c.withTimeout()
	defer cancel()
	c.Session.SignOut(ctx)
	c.printf("Signed out\n")
	return nil
}

type WhoamiCmd struct{}

func (w *WhoamiCmd) Run(c *Context) error {
	if c.Mode == ModeLocal {
		c.printf("local journal\n")
		return nil
	}
	user, ok := c.Session.Current()
	if !ok {
		return ErrSignedOut
	}
	c.printf("%s (%s)\n", user.Name, user.ID)
	return nil
}
