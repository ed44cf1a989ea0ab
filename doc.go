// Package setuppyinfer implements static analysis of a Python source tree
// built with the legacy setuptools build backend: it reads setup.cfg and
// setup.py (without executing either) and pyproject.toml, and answers the
// three PEP 517 questions a build frontend would otherwise need a running
// interpreter for: what's required to build an sdist, what's required to
// build a wheel, and what the package's metadata is.
package setuppyinfer
