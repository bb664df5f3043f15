package dirlist

// HTML fragments composed into the listing document. Byte layout, element
// IDs and class names are kept stable so stylesheets written against
// existing deployments keep working.
const (
	htmlHeaderStart = `<?xml version="1.0" encoding="iso-8859-1"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN"
         "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
	<head>
		<title>Index of %s</title>
`

	htmlHeaderEnd = `	</head>
	<body>
`

	htmlTableStart = `		<h2 id="title">Index of %s</h2>
		<div id="dirlist">
			<table summary="Directory Listing" cellpadding="0" cellspacing="0">
				<thead><tr><th id="name">Name</th><th id="modified">Last Modified</th><th id="size">Size</th><th id="type">Type</th></tr></thead>
				<tbody>
`

	htmlParentRow = "\t\t\t\t<tr><td><a href=\"../\">Parent Directory</a></td>" +
		"<td class=\"modified\" val=\"0\"></td>" +
		"<td class=\"size\" val=\"0\">-</td>" +
		"<td class=\"type\">Directory</td></tr>\n"

	htmlTableEnd = `				</tbody>
			</table>
		</div>
`

	htmlFooter = `	<div id="footer">%s</div>
	</body>
</html>`

	htmlCSS = `<style type="text/css">
	body { background-color: #F5F5F5; }
	h2#title { margin-bottom: 12px; }
	a, a:active { text-decoration: none; color: blue; }
	a:visited { color: #48468F; }
	a:hover, a:focus { text-decoration: underline; color: red; }
	table { margin-left: 12px; }
	th, td { font: 90% monospace; text-align: left; }
	th { font-weight: bold; padding-right: 14px; padding-bottom: 3px; }
	td { padding-right: 14px; }
	td.size, th#size { text-align: right; }
	#dirlist { background-color: white; border-top: 1px solid #646464; border-bottom: 1px solid #646464; padding-top: 10px; padding-bottom: 14px; }
	div#footer { font: 90% monospace; color: #787878; padding-top: 4px; }
</style>
`

	cssLinkStart = "\t\t<link rel=\"stylesheet\" type=\"text/css\" href=\""
	cssLinkEnd   = "\" />\n"
)
