package api

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// indexHTML is the single-page conversion UI: pick a file, preview PDFs,
// toggle page breaks, convert, download.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>pdf2docx</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  #preview { width: 100%; height: 420px; border: 1px solid #ccc; display: none; }
  #status { margin-top: 1rem; min-height: 1.5em; }
  #status.error { color: #b00020; }
  button:disabled { opacity: 0.5; }
</style>
</head>
<body>
<h1>pdf2docx</h1>
<p>Convert a document to a paragraph-structured .docx.</p>

<input type="file" id="file" accept=".pdf,.txt,.md,.markdown,.html,.htm,.csv">
<label><input type="checkbox" id="breaks"> page break between source pages</label>
<button id="convert" disabled>Convert</button>

<iframe id="preview"></iframe>
<div id="status"></div>

<script>
const fileInput = document.getElementById('file');
const breaks = document.getElementById('breaks');
const convertBtn = document.getElementById('convert');
const preview = document.getElementById('preview');
const status = document.getElementById('status');

let previewURL = null;

function releasePreview() {
  if (previewURL) {
    URL.revokeObjectURL(previewURL);
    previewURL = null;
  }
}

fileInput.addEventListener('change', () => {
  const f = fileInput.files[0];
  convertBtn.disabled = !f;
  status.textContent = '';
  status.className = '';
  releasePreview();
  if (f && f.name.toLowerCase().endsWith('.pdf')) {
    previewURL = URL.createObjectURL(f);
    preview.src = previewURL;
    preview.style.display = 'block';
  } else {
    preview.style.display = 'none';
    preview.src = 'about:blank';
  }
});

window.addEventListener('beforeunload', releasePreview);

async function poll(pollURL) {
  for (;;) {
    const resp = await fetch(pollURL);
    if (!resp.ok) throw new Error('status request failed');
    const snap = await resp.json();
    if (snap.status === 'failed') throw new Error(snap.error || 'conversion failed');
    if (snap.status === 'completed') return snap;
    status.textContent = snap.phase;
    await new Promise(r => setTimeout(r, 300));
  }
}

convertBtn.addEventListener('click', async () => {
  const f = fileInput.files[0];
  if (!f) return;
  convertBtn.disabled = true;
  status.className = '';
  status.textContent = 'converting...';
  try {
    const form = new FormData();
    form.append('file', f);
    form.append('page_breaks', breaks.checked ? 'true' : 'false');
    const resp = await fetch('/api/convert', { method: 'POST', body: form });
    const body = await resp.json();
    if (!resp.ok) throw new Error(body.error || 'conversion request failed');
    const snap = await poll(body.poll_url);
    status.textContent = 'done';
    window.location = snap.download_url;
  } catch (err) {
    status.className = 'error';
    status.textContent = String(err.message || err);
  } finally {
    convertBtn.disabled = !fileInput.files[0];
  }
});
</script>
</body>
</html>
`
