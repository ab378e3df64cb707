package rod

// Test pages served through httptest.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="testForm">
		<input id="username" type="text" name="username" />
		<input id="password" type="password" name="password" />
		<input id="locked" type="text" name="locked" disabled />
		<button id="submit" type="submit" class="primary">Submit</button>
	</form>
</body>
</html>`

	ListHTML = `<!DOCTYPE html>
<html>
<body>
	<ul>
		<li class="item">One</li>
		<li class="item">Two</li>
		<li class="item" style="display:none">Hidden</li>
	</ul>
	<a href="/home" id="home">  Go Home  </a>
	<a href="/about">About us</a>
</body>
</html>`

	DelayedHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="root"></div>
	<script>
		setTimeout(function() {
			var b = document.createElement('button');
			b.id = 'late';
			b.textContent = 'Late';
			document.getElementById('root').appendChild(b);
		}, 300);
	</script>
</body>
</html>`
)
