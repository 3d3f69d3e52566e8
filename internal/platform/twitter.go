package platform

import "time"

var twitterScript = script{
	label:    "Twitter",
	cookies:  "twitter",
	homeURL:  "https://twitter.com",
	feedURL:  "https://twitter.com/home",
	loggedIn: []string{"//div[@data-testid='tweetTextarea_0']", "//a[@data-testid='AppTabBar_Home_Link']"},
	steps: []step{
		{
			kind:      stepUpload,
			selectors: append([]string{"//input[@data-testid='fileInput']"}, fileInputs...),
			pause:     6 * time.Second,
			withMedia: true,
			optional:  true,
			failure:   "Media upload failed, continuing with text only",
		},
		{
			kind:      stepType,
			selectors: []string{"//div[@data-testid='tweetTextarea_0']", "//div[@role='textbox']"},
			failure:   "Could not find tweet box",
		},
		{
			kind:      stepClick,
			selectors: []string{"//button[@data-testid='tweetButtonInline']", "//button[@data-testid='tweetButton']"},
			pause:     5 * time.Second,
			failure:   "Error posting tweet",
		},
	},
	success: successMessage("Posted to Twitter successfully"),
}
