// Package github runs the batched latest-release query against the GitHub
// GraphQL API.
//
// # Usage
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"))
//	result, err := client.LatestReleases(ctx, query.Build(fragments))
//	if err != nil {
//	    return err
//	}
//	rows = status.ResolveAll(rows, result)
//
// # Authentication
//
// The GraphQL API requires a token. Any personal access token works since
// only public repository data is read.
//
// # Validation
//
// [ParseRepoRef] and friends validate "owner/name" references before they
// are placed in a query.
package github
