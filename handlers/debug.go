package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Debug echoes the request and reports build information as plain text.
func Debug(repoURL, version, sha1ver, buildtime string) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		a := []string{fmt.Sprintf("url: %s %s", r.Method, r.RequestURI), "Headers:"}

		names := make([]string, 0, len(r.Header))
		for k := range r.Header {
			names = append(names, k)
		}
		sort.Strings(names)

		for _, k := range names {
			v := r.Header[k]
			switch len(v) {
			case 0:
				a = append(a, "  "+k)
			case 1:
				a = append(a, fmt.Sprintf("  %s: %v", k, v[0]))
			default:
				a = append(a, "  "+k+":")
				for _, v2 := range v {
					a = append(a, "    "+v2)
				}
			}
		}

		a = append(a,
			"",
			fmt.Sprintf("version: %s", version),
			fmt.Sprintf("ver: %s/commit/%s", repoURL, sha1ver),
			fmt.Sprintf("built on: %s", buildtime),
		)

		handleTextResponse(rw, http.StatusOK, strings.Join(a, "\n"))
	})
}
