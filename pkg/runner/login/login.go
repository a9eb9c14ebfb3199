package login

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/planner/pkg/session"
)

// Login signs an existing account in.
type Login struct {
	Email    string
	Password string

	Gate *session.Gate
}

func (n *Login) Do(ctx context.Context) error {
	if n.Gate == nil {
		return errors.New("can not login, no session gate")
	}
	id, err := n.Gate.SignIn(n.Email, n.Password)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", id.Email)
	return nil
}

// Signup registers a new account and signs it in.
type Signup struct {
	Email    string
	Password string

	Gate *session.Gate
}

func (n *Signup) Do(ctx context.Context) error {
	if n.Gate == nil {
		return errors.New("can not signup, no session gate")
	}
	id, err := n.Gate.SignUp(n.Email, n.Password)
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", id.Email)
	return nil
}

// Logout clears the persisted session.
type Logout struct {
	Gate *session.Gate
}

func (n *Logout) Do(ctx context.Context) error {
	if n.Gate == nil {
		return errors.New("can not logout, no session gate")
	}
	if err := n.Gate.SignOut(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

// Whoami prints the signed-in identity.
type Whoami struct {
	Gate *session.Gate
}

func (n *Whoami) Do(ctx context.Context) error {
	if n.Gate == nil {
		return errors.New("no session gate")
	}
	id, ok := n.Gate.Current()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s (%s)\n", id.Email, id.ID)
	return nil
}
