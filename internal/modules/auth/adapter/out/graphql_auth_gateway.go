package out

import (
	"context"

	"geomoments/internal/modules/auth/domain"
	authout "geomoments/internal/modules/auth/port/out"
	"geomoments/internal/platform/graphql"
)

const loginMutation = `
mutation Login($usernameOrEmail: String!, $password: String!) {
  login(usernameOrEmail: $usernameOrEmail, password: $password) {
    accessToken
    refreshToken
    user {
      id
      username
      email
    }
  }
}`

const registerMutation = `
mutation Register($username: String!, $email: String!, $password: String!) {
  register(username: $username, email: $email, password: $password) {
    accessToken
    refreshToken
    user {
      id
      username
      email
    }
  }
}`

type authPayload struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         domain.User `json:"user"`
}

func (p authPayload) credentials() authout.Credentials {
	return authout.Credentials{User: p.User, AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

type GraphQLAuthGateway struct {
	client *graphql.Client
}

func NewGraphQLAuthGateway(client *graphql.Client) authout.AuthGateway {
	return &GraphQLAuthGateway{client: client}
}

func (g *GraphQLAuthGateway) Login(ctx context.Context, usernameOrEmail, password string) (authout.Credentials, error) {
	var out struct {
		Login authPayload `json:"login"`
	}
	err := g.client.Do(ctx, graphql.Request{
		OperationName: "Login",
		Document:      loginMutation,
		Variables:     map[string]any{"usernameOrEmail": usernameOrEmail, "password": password},
	}, &out)
	if err != nil {
		return authout.Credentials{}, err
	}
	return out.Login.credentials(), nil
}

func (g *GraphQLAuthGateway) Register(ctx context.Context, username, email, password string) (authout.Credentials, error) {
	var out struct {
		Register authPayload `json:"register"`
	}
	err := g.client.Do(ctx, graphql.Request{
		OperationName: "Register",
		Document:      registerMutation,
		Variables:     map[string]any{"username": username, "email": email, "password": password},
	}, &out)
	if err != nil {
		return authout.Credentials{}, err
	}
	return out.Register.credentials(), nil
}
