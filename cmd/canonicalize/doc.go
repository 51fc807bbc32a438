/* canonicalize collapses URL variants (tracking parameters, mirrors, trailing slashes) to one identity.
*
* RESOLUTION
* * Each URL is first probed with HEAD (or GET with `--method get`)
*   * Some hosts block clients that send lots of HEADs (linkedin, crunchbase). These are always sent GET. Add more with `--force-full-host` or `hosts.force-full` in the config file
* * 2xx: a `Link: <url>; rel="canonical"` response header is the answer
*   * If there isn't one and we sent HEAD, we try once more with GET
*   * If there isn't one and we sent GET, the first `<link rel="canonical">` in the HTML `<head>` is the answer
* * 3xx: where it redirects to is the answer, unless it's a temporary redirect (302, 307, or anything in `--temporary-status`)
*   * Temporary redirects say nothing durable about the resource, so they're reported as unresolved
*   * Redirects are never followed; run the tool again on the result if you want the next hop
* * Anything else, including connection failures, is unresolved
* Relative canonical links and Locations are resolved against the URL that was requested.
*
* OUTPUT
* * Exit status is 0 even if some URLs are unresolved; it's non-zero only for bad flags, config, or URLs
* * `-o json` / `-o yaml` give one object per input, in input order
 */
package main
